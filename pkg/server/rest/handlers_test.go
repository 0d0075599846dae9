package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lintang/cityroute/pkg/config"
	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/kv"
	"lintang/cityroute/pkg/logging"
	"lintang/cityroute/pkg/server/rest"
	"lintang/cityroute/pkg/server/rest/service"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodesCSV = `Id,CityName,Latitude,Longitude
1,Yogyakarta,-7.7956,110.3695
2,Klaten,-7.7058,110.6063
3,Surakarta,-7.5755,110.8243
`

const edgesCSV = `Id,Start,End
1,Yogyakarta,Klaten
2,Klaten,Surakarta
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	t.Cleanup(func() { kvDB.Close() })

	cfg := config.Default()
	svc := service.NewRoutingService(kvDB, logging.Discard(), cfg.Search)
	r := rest.NewRouter(svc, prometheus.NewRegistry(), cfg.HTTP, logging.Discard())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func upload(t *testing.T, srv *httptest.Server, path, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+path, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func seededServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := newTestServer(t)

	resp := upload(t, srv, "/api/routes/upload-nodes", nodesCSV)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = upload(t, srv, "/api/routes/upload-edges", edgesCSV)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func sendJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	bb, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(bb))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestShortestPathEndpoints(t *testing.T) {
	srv := seededServer(t)

	var res rest.ShortestPathResponse
	status := getJSON(t, srv.URL+"/api/routes/shortest-path?start_node_id=1&end_node_id=3", &res)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, res.Found)
	assert.Equal(t, 2, res.Hops)
	require.Len(t, res.Nodes, 3)
	assert.Equal(t, "Surakarta", res.Nodes[2].CityName)
	assert.Len(t, res.Route, 3)
	assert.NotEmpty(t, res.Path)

	res = rest.ShortestPathResponse{}
	status = getJSON(t, srv.URL+"/api/routes/shortest-path-by-name?start_city_name=yogyakarta&end_city_name=klaten", &res)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, res.Hops)

	var errResp rest.ErrResponse
	status = getJSON(t, srv.URL+"/api/routes/shortest-path?start_node_id=3&end_node_id=1", &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, errResp.ErrorText, "No path found")

	status = getJSON(t, srv.URL+"/api/routes/shortest-path?start_node_id=1&end_node_id=99", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/api/routes/shortest-path?start_node_id=abc&end_node_id=1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = getJSON(t, srv.URL+"/api/routes/shortest-path-by-name?start_city_name=Yogyakarta", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	errResp = rest.ErrResponse{}
	status = getJSON(t, srv.URL+"/api/routes/shortest-path-by-name?start_city_name=Yogyakarta&end_city_name=Atlantis", &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errResp.ErrorText, "city names are invalid")
}

func TestDistanceEndpoint(t *testing.T) {
	srv := seededServer(t)

	var res rest.DistanceResponse
	status := getJSON(t, srv.URL+"/api/routes/distance?start_node_id=1&end_node_id=3", &res)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, res.Found)
	assert.Greater(t, res.Distance, 50.0)

	res = rest.DistanceResponse{}
	status = getJSON(t, srv.URL+"/api/routes/distance?start_node_id=3&end_node_id=1", &res)
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, res.Found)
	assert.Zero(t, res.Distance)
}

func TestCoordinateEndpoints(t *testing.T) {
	srv := seededServer(t)

	resp := sendJSON(t, http.MethodPost, srv.URL+"/api/routes/shortest-path-by-coordinates", map[string]float64{
		"src_lat": -7.79, "src_lon": 110.37, "dst_lat": -7.58, "dst_lon": 110.82,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res rest.ShortestPathResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 2, res.Hops)

	bad := sendJSON(t, http.MethodPost, srv.URL+"/api/routes/shortest-path-by-coordinates", map[string]float64{
		"src_lat": -97, "src_lon": 110.37, "dst_lat": -7.58, "dst_lon": 110.82,
	})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	var errResp rest.ErrResponse
	require.NoError(t, json.NewDecoder(bad.Body).Decode(&errResp))
	assert.NotEmpty(t, errResp.ErrValidation)

	var nearest rest.NearestNodeResponse
	status := getJSON(t, srv.URL+"/api/nodes/nearest?lat=-7.70&lon=110.60", &nearest)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), nearest.Node.ID)

	status = getJSON(t, srv.URL+"/api/nodes/nearest?lat=x&lon=110.60", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNodeEndpoints(t *testing.T) {
	srv := seededServer(t)

	var nodes []datastructure.Node
	status := getJSON(t, srv.URL+"/api/nodes", &nodes)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, nodes, 3)

	semarang := map[string]any{"id": 5, "city_name": "Semarang", "latitude": -6.9667, "longitude": 110.4167}
	resp := sendJSON(t, http.MethodPost, srv.URL+"/api/nodes", semarang)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = sendJSON(t, http.MethodPost, srv.URL+"/api/nodes", semarang)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = sendJSON(t, http.MethodPost, srv.URL+"/api/nodes", map[string]any{"id": 6, "latitude": 1, "longitude": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got datastructure.Node
	status = getJSON(t, srv.URL+"/api/nodes/5", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Semarang", got.CityName)

	resp = sendJSON(t, http.MethodPut, srv.URL+"/api/nodes/5", map[string]any{"city_name": "Kota Semarang", "latitude": -6.9667, "longitude": 110.4167})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = sendJSON(t, http.MethodPut, srv.URL+"/api/nodes/5", map[string]any{"id": 9, "city_name": "X"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/nodes/5", nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	status = getJSON(t, srv.URL+"/api/nodes/5", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/api/nodes/0", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var edges []datastructure.Edge
	status = getJSON(t, srv.URL+"/api/edges", &edges)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, edges, 2)
}

func TestUploadValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/routes/upload-nodes", "text/csv", strings.NewReader(nodesCSV))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, srv, "/api/routes/upload-nodes", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, srv, "/api/routes/upload-edges", "Id,Start,End\nx,A,B\n")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := seededServer(t)

	getJSON(t, srv.URL+"/api/routes/shortest-path?start_node_id=1&end_node_id=3", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `cityroute_shortestpath_query_count{found="true",mode="hop_count"} 1`)
	assert.Contains(t, string(body), `path="/api/routes/shortest-path"`)
}
