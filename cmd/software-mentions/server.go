package main

import (
	"errors"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID, s.controller.metrics.middleware)

	r.POST("/annotate", validateBody, s.Annotate)
	r.POST("/entities", validateBody, s.Entities)
	r.GET("/normalize/:field", s.Normalize)
	r.GET("/lexicon", s.LexiconStats)
	r.GET("/lexicon/idf/:term", s.IDF)
	r.GET("/ready", s.Ready)
	r.GET("/metrics", s.controller.metrics.handler())
}

// requestID tags the request with an id, echoed in the X-Request-Id header
// and in the access log.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(lib.RequestIDKey, id)
	c.Header("X-Request-Id", id)
	c.Next()
}

func (s server) Annotate(c *gin.Context) {
	contentType, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/plain, text/html, application/xml or application/json")))
		return
	}

	snippets, err := s.controller.Annotate(c.Request.Body, contentType)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, snippets)
}

func (s server) Entities(c *gin.Context) {
	if contentType, ok := allowedContentTypeEnumMap[c.ContentType()]; !ok || contentType != contentTypeJSON {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be application/json")))
		return
	}

	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}

	data, err := s.controller.Entities(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(200, "application/json; charset=utf-8", data)
}

func (s server) Normalize(c *gin.Context) {
	value, ok := c.GetQuery("value")
	if !ok {
		handleError(c, NewHttpError(400, errors.New("you must set the value query parameter")))
		return
	}

	normalized, err := s.controller.Normalize(c.Param("field"), value)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, map[string]interface{}{
		"field":      c.Param("field"),
		"value":      value,
		"normalized": normalized,
	})
}

func (s server) IDF(c *gin.Context) {
	term := c.Param("term")
	c.JSON(200, map[string]interface{}{
		"term": term,
		"idf":  s.controller.IDF(term),
	})
}

func (s server) LexiconStats(c *gin.Context) {
	c.JSON(200, s.controller.LexiconStats())
}

func (s server) Ready(c *gin.Context) {
	if !s.controller.Ready() {
		c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"ready": false})
		return
	}
	c.JSON(200, map[string]interface{}{"ready": true})
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
		return
	}
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		abort(c, httpErr.code, httpErr.error)
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	abort(c, 500, err)
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
