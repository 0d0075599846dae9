package main

import (
	"fmt"
	"os"
)

//	@title			cityroute API
//	@version		1.0
//	@description	shortest path antar kota: jumlah edge paling sedikit (Dijkstra) dan jarak haversine minimum (DFS).

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
