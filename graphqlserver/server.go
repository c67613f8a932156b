// Package graphqlserver is an in-memory stand-in for the Shopify Admin API:
// the GraphQL endpoint, staged upload targets and the uploaded files.
package graphqlserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"shopify.GO/core/auth"
	"shopify.GO/graphql"
)

// DefaultToken is accepted when no token is configured.
const DefaultToken = "shpat_mock"

var apiVersion = regexp.MustCompile(`^(\d{4}-\d{2}|unstable)$`)

type Server struct {
	store  *Store
	schema *gql.Schema
	echo   *echo.Echo
	token  string
	log    *zap.Logger
}

type Option func(*Server)

func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New parses the schema against the resolvers and wires the routes.
func New(opts ...Option) (*Server, error) {
	s := &Server{store: NewStore(), token: DefaultToken, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	schema, err := NewSchema(s.store)
	if err != nil {
		return nil, err
	}
	s.schema = schema

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	api := e.Group("/admin/api/:version", s.checkVersion, auth.Middleware(s.token))
	api.POST("/graphql.json", echo.WrapHandler(Handler(schema)), s.recordRequest)

	e.PUT("/uploads/:key", s.handleUpload)
	e.POST("/uploads/:key", s.handleUpload)
	e.GET("/tmp/:key/:filename", s.handleFile)
	s.echo = e
	return s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(store *Store) (*gql.Schema, error) {
	schema, err := gql.ParseSchema(graphql.Schema(), &RootResolver{store: store}, gql.UseFieldResolvers())
	if err != nil {
		return nil, fmt.Errorf("parse admin schema: %w", err)
	}
	return schema, nil
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) Token() string { return s.token }

// ServeHTTP makes the server usable with httptest.NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until the process stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) checkVersion(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !apiVersion.MatchString(c.Param("version")) {
			return c.JSON(http.StatusNotFound, map[string]string{"errors": "Not Found"})
		}
		return next(c)
	}
}

// recordRequest keeps a copy of each GraphQL request and passes the base URL
// to the resolvers.
func (s *Server) recordRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"errors": "unreadable body"})
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}
		if err := json.Unmarshal(body, &params); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"errors": "body is not a GraphQL request"})
		}
		s.store.record(RecordedRequest{
			OperationName: params.OperationName,
			Query:         params.Query,
			Variables:     params.Variables,
		})
		s.log.Debug("graphql request",
			zap.String("operation", params.OperationName),
			zap.String("version", c.Param("version")),
		)

		c.SetRequest(req.WithContext(withBaseURL(req.Context(), requestBaseURL(req))))
		return next(c)
	}
}

// handleUpload plays the storage bucket. PUT targets must replay every
// staged parameter as a header, POST targets as form fields.
func (s *Server) handleUpload(c echo.Context) error {
	up, ok := s.store.StagedUpload(c.Param("key"))
	if !ok {
		return c.String(http.StatusNotFound, "NoSuchUpload")
	}
	if status := s.store.uploadFailure(); status != 0 {
		return c.String(status, "upload rejected")
	}
	req := c.Request()
	if req.Method != up.Method {
		return c.String(http.StatusMethodNotAllowed, "target was staged for "+up.Method)
	}

	var data []byte
	switch up.Method {
	case http.MethodPut:
		for _, p := range up.Parameters {
			if req.Header.Get(p.Name) != p.Value {
				return c.String(http.StatusForbidden, "SignatureDoesNotMatch: "+p.Name)
			}
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		data = body
	default:
		for _, p := range up.Parameters {
			if c.FormValue(p.Name) != p.Value {
				return c.String(http.StatusForbidden, "SignatureDoesNotMatch: "+p.Name)
			}
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return c.String(http.StatusBadRequest, "missing file part")
		}
		f, err := fh.Open()
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
	}
	if len(data) == 0 {
		return c.String(http.StatusBadRequest, "EntityTooSmall")
	}

	s.store.completeUpload(up.Key, data)
	s.log.Debug("staged upload received", zap.String("key", up.Key), zap.Int("bytes", len(data)))
	if up.Method == http.MethodPost {
		return c.NoContent(http.StatusCreated)
	}
	return c.NoContent(http.StatusOK)
}

// handleFile serves uploaded bytes at their resourceUrl.
func (s *Server) handleFile(c echo.Context) error {
	up, ok := s.store.StagedUpload(c.Param("key"))
	if !ok || !up.Uploaded {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, up.MimeType, up.Data)
}
