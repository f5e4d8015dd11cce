package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
	"github.com/oksasatya/go-graphql-blog/pkg/response"
	"github.com/oksasatya/go-graphql-blog/pkg/validation"
)

type request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// ErrorEntry is one element of "errors" in a response.
type ErrorEntry struct {
	Message   string               `json:"message"`
	Data      []apperror.Violation `json:"data,omitempty"`
	Status    int                  `json:"status"`
	Locations []gqlerrors.Location `json:"locations,omitempty"`
	Path      []interface{}        `json:"path,omitempty"`
}

type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorEntry    `json:"errors,omitempty"`
}

type Handler struct {
	schema *graphql.Schema
	logger logrus.FieldLogger
}

func NewHandler(schema *graphql.Schema, logger logrus.FieldLogger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

// Serve executes a GraphQL request from a JSON POST body or from GET query parameters.
func (h *Handler) Serve(c *gin.Context) {
	var req request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if v := c.Query("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				response.Abort(c, http.StatusBadRequest, "Variables are invalid JSON.", nil)
				return
			}
		}
		if req.Query == "" {
			response.Abort(c, http.StatusBadRequest, "Must provide query string.", nil)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, "Must provide query string.", validation.ToDetails(err))
		return
	}

	ctx := c.Request.Context()
	res := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	out := Response{Data: res.Data}
	if len(res.Errors) > 0 {
		log := h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"user_id":    identity.FromContext(ctx).UserID,
			"operation":  req.OperationName,
		})
		out.Errors = make([]ErrorEntry, 0, len(res.Errors))
		for _, qe := range res.Errors {
			out.Errors = append(out.Errors, formatError(qe, log))
		}
	}
	c.JSON(http.StatusOK, out)
}

// formatError maps a query error onto the client envelope. Resolver failures
// carry their kind; errors without a resolver cause and without a path are
// query errors (syntax, validation against the schema); anything else is a
// runtime failure and is hidden behind the generic message.
func formatError(qe *gqlerrors.QueryError, log logrus.FieldLogger) ErrorEntry {
	if qe.ResolverError != nil {
		ae := apperror.From(qe.ResolverError)
		if ae.Kind == apperror.KindUnexpected {
			log.WithError(qe.ResolverError).WithField("path", qe.Path).Error("resolver failed")
		}
		return ErrorEntry{Message: ae.Message, Data: ae.Data, Status: ae.Status(), Path: qe.Path}
	}
	if len(qe.Path) > 0 {
		log.WithField("path", qe.Path).Error("graphql execution failed: " + qe.Message)
		ae := apperror.Unexpected(qe)
		return ErrorEntry{Message: ae.Message, Status: ae.Status(), Path: qe.Path}
	}
	return ErrorEntry{Message: qe.Message, Status: http.StatusBadRequest, Locations: qe.Locations}
}
