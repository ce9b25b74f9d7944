package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/middleware"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/internal/service"
	"github.com/prmhq/prm-backend/pkg/ginutil"
)

// requestApplier is a request DTO that can be copied onto a stored record
type requestApplier[PT any] interface {
	ApplyTo(PT) error
}

// currentUser is the authenticated actor
func currentUser(c *gin.Context) uint64 {
	return middleware.GetUserID(c)
}

// bindRequest decodes the JSON body into req, reporting binding failures as validation errors
func bindRequest(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

// fieldUpdate returns the change a PUT or PATCH asks for.
// PUT decodes into an empty request; PATCH decodes over the stored record's values.
func fieldUpdate[PT any, R requestApplier[PT]](c *gin.Context, from func(PT) R) func(PT) error {
	return func(record PT) error {
		var req R
		if c.Request.Method == http.MethodPatch {
			req = from(record)
		}
		if err := bindRequest(c, &req); err != nil {
			return err
		}
		return req.ApplyTo(record)
	}
}

// updateOp selects between a roster addition (?contact=) and a field update
func updateOp[PT any, R requestApplier[PT]](c *gin.Context, from func(PT) R) service.UpdateOp {
	if contact, ok := c.GetQuery("contact"); ok {
		return service.AddMember{ContactCode: contact}
	}
	return service.FieldUpdate[PT]{Apply: fieldUpdate(c, from)}
}

// deleteOp selects between a roster removal (?contact=) and deleting the record
func deleteOp(c *gin.Context) service.DeleteOp {
	if contact, ok := c.GetQuery("contact"); ok {
		return service.RemoveMember{ContactCode: contact}
	}
	return service.WholeDelete{}
}

// dateRange reads the optional from/to query parameters
func dateRange(c *gin.Context) (*common.DateRange, error) {
	from, hasFrom := c.GetQuery("from")
	to, hasTo := c.GetQuery("to")
	return common.ParseDateRange(from, to, hasFrom, hasTo)
}

// listQuery reads pagination and attaches scopes
func listQuery(c *gin.Context, scopes ...func(*gorm.DB) *gorm.DB) repository.ListQuery {
	page, perPage := ginutil.Pagination(c)
	return repository.ListQuery{Page: page, PerPage: perPage, Scopes: scopes}
}

// memberScope narrows a roster list to parents listing ?contact=, when given
func memberScope[T any, PT repository.Resource[T]](c *gin.Context, roster *service.Roster[T, PT]) (func(*gorm.DB) *gorm.DB, bool, error) {
	contact, ok := c.GetQuery("contact")
	if !ok {
		return nil, false, nil
	}
	scope, err := roster.MemberFilter(c.Request.Context(), currentUser(c), contact)
	if err != nil {
		return nil, false, err
	}
	return scope, true, nil
}

// respondList writes a page of items with pagination metadata
func respondList[T any](c *gin.Context, q repository.ListQuery, items []T, total int64) {
	if items == nil {
		items = []T{}
	}
	common.SuccessWithMeta(c, items, common.NewMeta(q.Page, q.PerPage, total))
}
