package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/server"
	"lintang/cityroute/pkg/server/rest/service"
	"lintang/cityroute/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const maxUploadSize = 32 << 20

type RoutingService interface {
	ShortestPath(ctx context.Context, from, to int64) (service.PathResult, error)
	ShortestPathByName(ctx context.Context, from, to string) (service.PathResult, error)
	MinimumDistance(ctx context.Context, from, to int64) (service.DistanceResult, error)
	ShortestPathByCoordinates(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (service.PathResult, error)
	NearestNode(ctx context.Context, lat, lon float64) (datastructure.Node, float64, error)

	ListNodes(ctx context.Context) ([]datastructure.Node, error)
	GetNode(ctx context.Context, id int64) (datastructure.Node, error)
	CreateNode(ctx context.Context, n datastructure.Node) (datastructure.Node, error)
	UpdateNode(ctx context.Context, n datastructure.Node) (datastructure.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	ListEdges(ctx context.Context) ([]datastructure.Edge, error)
	ImportNodesCSV(ctx context.Context, r io.Reader) ([]datastructure.Node, error)
	ImportEdgesCSV(ctx context.Context, r io.Reader) ([]datastructure.Edge, error)
}

type RoutingHandler struct {
	svc          RoutingService
	promeMetrics *metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func RoutingRouter(r *chi.Mux, svc RoutingService, m *metrics) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &RoutingHandler{svc: svc, promeMetrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/routes", func(r chi.Router) {
			r.Get("/shortest-path", handler.shortestPath)
			r.Get("/shortest-path-by-name", handler.shortestPathByName)
			r.Get("/distance", handler.minimumDistance)
			r.Post("/shortest-path-by-coordinates", handler.shortestPathByCoordinates)
			r.Post("/upload-nodes", handler.uploadNodes)
			r.Post("/upload-edges", handler.uploadEdges)
		})
		r.Route("/api/nodes", func(r chi.Router) {
			r.Get("/", handler.listNodes)
			r.Post("/", handler.createNode)
			r.Get("/nearest", handler.nearestNode)
			r.Get("/{id}", handler.getNode)
			r.Put("/{id}", handler.updateNode)
			r.Delete("/{id}", handler.deleteNode)
		})
		r.Get("/api/edges", handler.listEdges)
	})
}

// ShortestPathResponse	model info
//
//	@Description	response body untuk shortest path query (jumlah edge paling sedikit)
type ShortestPathResponse struct {
	Path  string                     `json:"path"`
	Hops  int                        `json:"hops"`
	Found bool                       `json:"found"`
	Nodes []datastructure.Node       `json:"nodes"`
	Route []datastructure.Coordinate `json:"route"`
}

func NewShortestPathResponse(res service.PathResult) *ShortestPathResponse {
	return &ShortestPathResponse{
		Path:  res.Polyline,
		Hops:  res.Hops,
		Found: res.Found,
		Nodes: res.Path,
		Route: datastructure.PathCoordinates(res.Path),
	}
}

// DistanceResponse model info
//
//	@Description	response body untuk minimum distance query (km)
type DistanceResponse struct {
	Distance float64 `json:"distance_km,omitempty"`
	Found    bool    `json:"found"`
}

// shortestPath
//
//	@Summary		shortest path antara 2 node (pakai id).
//	@Description	path dengan jumlah edge paling sedikit dari start_node_id ke end_node_id.
//	@Tags			routes
//	@Param			start_node_id	query	int	true	"id node asal"
//	@Param			end_node_id		query	int	true	"id node tujuan"
//	@Produce		application/json
//	@Router			/routes/shortest-path [get]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	from, to, err := nodeIDPair(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	res, err := h.svc.ShortestPath(r.Context(), from, to)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.SPQueryCount.WithLabelValues("hop_count", strconv.FormatBool(res.Found)).Inc()
	if !res.Found {
		render.Render(w, r, ErrNoPath(errors.New("No path found between the specified nodes.")))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// shortestPathByName
//
//	@Summary		shortest path antara 2 node (pakai nama kota).
//	@Description	path dengan jumlah edge paling sedikit, nama kota dicocokkan case-insensitive.
//	@Tags			routes
//	@Param			start_city_name	query	string	true	"nama kota asal"
//	@Param			end_city_name	query	string	true	"nama kota tujuan"
//	@Produce		application/json
//	@Router			/routes/shortest-path-by-name [get]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) shortestPathByName(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("start_city_name")
	to := r.URL.Query().Get("end_city_name")
	if from == "" || to == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("start_city_name and end_city_name are required")))
		return
	}

	res, err := h.svc.ShortestPathByName(r.Context(), from, to)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.SPQueryCount.WithLabelValues("hop_count_name", strconv.FormatBool(res.Found)).Inc()
	if !res.Found {
		render.Render(w, r, ErrNoPath(errors.New("No path found between the specified cities.")))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// minimumDistance
//
//	@Summary		jarak minimum antara 2 node.
//	@Description	jarak minimum (km) dari start_node_id ke end_node_id, bobot edge = haversine distance. found=false kalau tidak ada path.
//	@Tags			routes
//	@Param			start_node_id	query	int	true	"id node asal"
//	@Param			end_node_id		query	int	true	"id node tujuan"
//	@Produce		application/json
//	@Router			/routes/distance [get]
//	@Success		200	{object}	DistanceResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *RoutingHandler) minimumDistance(w http.ResponseWriter, r *http.Request) {
	from, to, err := nodeIDPair(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	res, err := h.svc.MinimumDistance(r.Context(), from, to)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.SPQueryCount.WithLabelValues("geo_weighted", strconv.FormatBool(res.Found)).Inc()

	resp := &DistanceResponse{Found: res.Found}
	if res.Found {
		resp.Distance = util.RoundFloat(res.Distance, 3)
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// CoordinatePathRequest model info
//
//	@Description	request body untuk shortest path antara 2 koordinat (di-snap ke node terdekat)
type CoordinatePathRequest struct {
	SrcLat float64 `json:"src_lat" validate:"lte=90,gte=-90"`
	SrcLon float64 `json:"src_lon" validate:"lte=180,gte=-180"`
	DstLat float64 `json:"dst_lat" validate:"lte=90,gte=-90"`
	DstLon float64 `json:"dst_lon" validate:"lte=180,gte=-180"`
}

func (s *CoordinatePathRequest) Bind(r *http.Request) error {
	return nil
}

// shortestPathByCoordinates
//
//	@Summary		shortest path antara 2 koordinat.
//	@Description	kedua koordinat di-snap ke node terdekat, lalu dicari path dengan jumlah edge paling sedikit.
//	@Tags			routes
//	@Param			body	body	CoordinatePathRequest	true	"koordinat asal & tujuan"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/routes/shortest-path-by-coordinates [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoutingHandler) shortestPathByCoordinates(w http.ResponseWriter, r *http.Request) {
	data := &CoordinatePathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	res, err := h.svc.ShortestPathByCoordinates(r.Context(), data.SrcLat, data.SrcLon, data.DstLat, data.DstLon)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.SPQueryCount.WithLabelValues("coordinates", strconv.FormatBool(res.Found)).Inc()
	if !res.Found {
		render.Render(w, r, ErrNoPath(errors.New("No path found between the specified coordinates.")))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// NearestNodeResponse model info
//
//	@Description	node terdekat dari sebuah koordinat
type NearestNodeResponse struct {
	Node     datastructure.Node `json:"node"`
	Distance float64            `json:"distance_km"`
}

// nearestNode
//
//	@Summary		node terdekat dari koordinat.
//	@Tags			nodes
//	@Param			lat	query	number	true	"latitude"
//	@Param			lon	query	number	true	"longitude"
//	@Produce		application/json
//	@Router			/nodes/nearest [get]
//	@Success		200	{object}	NearestNodeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *RoutingHandler) nearestNode(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("lat and lon must be numbers")))
		return
	}

	n, dist, err := h.svc.NearestNode(r.Context(), lat, lon)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &NearestNodeResponse{Node: n, Distance: util.RoundFloat(dist, 3)})
}

// NodeRequest model info
//
//	@Description	request body untuk create / update node
type NodeRequest struct {
	ID        int64   `json:"id"`
	CityName  string  `json:"city_name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"lte=90,gte=-90"`
	Longitude float64 `json:"longitude" validate:"lte=180,gte=-180"`
}

func (s *NodeRequest) Bind(r *http.Request) error {
	return nil
}

func (s *NodeRequest) toNode() datastructure.Node {
	return datastructure.Node{ID: s.ID, CityName: s.CityName, Lat: s.Latitude, Lon: s.Longitude}
}

func (h *RoutingHandler) bindNode(w http.ResponseWriter, r *http.Request) (*NodeRequest, bool) {
	data := &NodeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return nil, false
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return nil, false
	}
	return data, true
}

// listNodes
//
//	@Summary	semua node.
//	@Tags		nodes
//	@Produce	application/json
//	@Router		/nodes [get]
//	@Success	200	{array}		datastructure.Node
//	@Failure	500	{object}	ErrResponse
func (h *RoutingHandler) listNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.svc.ListNodes(r.Context())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, nodes)
}

// getNode
//
//	@Summary	node berdasarkan id.
//	@Tags		nodes
//	@Param		id	path	int	true	"id node"
//	@Produce	application/json
//	@Router		/nodes/{id} [get]
//	@Success	200	{object}	datastructure.Node
//	@Failure	400	{object}	ErrResponse
//	@Failure	404	{object}	ErrResponse
func (h *RoutingHandler) getNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	n, err := h.svc.GetNode(r.Context(), id)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, n)
}

// createNode
//
//	@Summary	tambah node baru.
//	@Tags		nodes
//	@Param		body	body	NodeRequest	true	"node baru"
//	@Accept		application/json
//	@Produce	application/json
//	@Router		/nodes [post]
//	@Success	201	{object}	datastructure.Node
//	@Failure	400	{object}	ErrResponse
//	@Failure	409	{object}	ErrResponse
func (h *RoutingHandler) createNode(w http.ResponseWriter, r *http.Request) {
	data, ok := h.bindNode(w, r)
	if !ok {
		return
	}
	n, err := h.svc.CreateNode(r.Context(), data.toNode())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, n)
}

// updateNode
//
//	@Summary	update node.
//	@Tags		nodes
//	@Param		id		path	int			true	"id node"
//	@Param		body	body	NodeRequest	true	"data node"
//	@Accept		application/json
//	@Produce	application/json
//	@Router		/nodes/{id} [put]
//	@Success	200	{object}	datastructure.Node
//	@Failure	400	{object}	ErrResponse
//	@Failure	404	{object}	ErrResponse
func (h *RoutingHandler) updateNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	data, ok := h.bindNode(w, r)
	if !ok {
		return
	}
	if data.ID != 0 && data.ID != id {
		render.Render(w, r, ErrInvalidRequest(errors.New("body id does not match path id")))
		return
	}
	data.ID = id

	n, err := h.svc.UpdateNode(r.Context(), data.toNode())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, n)
}

// deleteNode
//
//	@Summary	hapus node. Edge yang merujuk node ini tetap ada.
//	@Tags		nodes
//	@Param		id	path	int	true	"id node"
//	@Router		/nodes/{id} [delete]
//	@Success	204
//	@Failure	400	{object}	ErrResponse
//	@Failure	404	{object}	ErrResponse
func (h *RoutingHandler) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.svc.DeleteNode(r.Context(), id); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.NoContent(w, r)
}

// listEdges
//
//	@Summary	semua edge.
//	@Tags		edges
//	@Produce	application/json
//	@Router		/edges [get]
//	@Success	200	{array}		datastructure.Edge
//	@Failure	500	{object}	ErrResponse
func (h *RoutingHandler) listEdges(w http.ResponseWriter, r *http.Request) {
	edges, err := h.svc.ListEdges(r.Context())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, edges)
}

// uploadNodes
//
//	@Summary		upload file csv node.
//	@Description	header Id,CityName,Latitude,Longitude. Node dengan id yang sama di-replace.
//	@Tags			routes
//	@Param			file	formData	file	true	"csv node"
//	@Accept			multipart/form-data
//	@Produce		application/json
//	@Router			/routes/upload-nodes [post]
//	@Success		200	{array}		datastructure.Node
//	@Failure		400	{object}	ErrResponse
func (h *RoutingHandler) uploadNodes(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	nodes, err := h.svc.ImportNodesCSV(r.Context(), file)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, nodes)
}

// uploadEdges
//
//	@Summary		upload file csv edge.
//	@Description	format id,startPlaceName,endPlaceName. Nama tempat dicocokkan case-sensitive ke node yang sudah ada.
//	@Tags			routes
//	@Param			file	formData	file	true	"csv edge"
//	@Accept			multipart/form-data
//	@Produce		application/json
//	@Router			/routes/upload-edges [post]
//	@Success		200	{array}		datastructure.Edge
//	@Failure		400	{object}	ErrResponse
func (h *RoutingHandler) uploadEdges(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	edges, err := h.svc.ImportEdgesCSV(r.Context(), file)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, edges)
}

type multipartFile interface {
	io.Reader
	io.Closer
}

func uploadedFile(w http.ResponseWriter, r *http.Request) (multipartFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("No file uploaded.")))
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(errors.New("No file uploaded.")))
		return nil, false
	}
	if header.Size == 0 {
		file.Close()
		render.Render(w, r, ErrInvalidRequest(errors.New("No file uploaded.")))
		return nil, false
	}
	return file, true
}

func nodeIDPair(r *http.Request) (int64, int64, error) {
	from, err := strconv.ParseInt(r.URL.Query().Get("start_node_id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("start_node_id must be an integer")
	}
	to, err := strconv.ParseInt(r.URL.Query().Get("end_node_id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("end_node_id must be an integer")
	}
	return from, to, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrNoPath source & target ada tapi tidak terhubung.
func ErrNoPath(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusGatewayTimeout:
		statusText = "Search timed out."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrConflict:
		return http.StatusConflict
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	case server.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
