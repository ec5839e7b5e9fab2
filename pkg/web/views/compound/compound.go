package compound

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/core/export"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

type Handle struct {
	cService compound.Service
	eService export.Service
}

func NewCompoundHandle(cService compound.Service, eService export.Service) *Handle {
	return &Handle{
		cService: cService,
		eService: eService,
	}
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(ctx.Param("id"))
	if err != nil || id.IsNil() {
		common.ReplyErr(ctx, code.ParamErr.WithFields(map[string]string{"id": "must be a valid uuid"}), "invalid compound id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handle) List(ctx *gin.Context) {
	req := &compound.ListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse ListCompound param err: %+v", err.Error())
		common.ReplyErr(ctx, common.BindErr(err))
		return
	}
	resp, err := h.cService.List(ctx, req)
	common.ReplyPage(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	resp, err := h.cService.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Create(ctx *gin.Context) {
	req := &compound.CompoundInput{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateCompound param err: %+v", err.Error())
		common.ReplyErr(ctx, common.BindErr(err))
		return
	}
	resp, err := h.cService.Create(ctx, req)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyCreated(ctx, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	req := &compound.CompoundInput{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse UpdateCompound param err: %+v", err.Error())
		common.ReplyErr(ctx, common.BindErr(err))
		return
	}
	resp, err := h.cService.Update(ctx, id, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if _, err := h.cService.Delete(ctx, id); err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Handle) Export(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	file, err := h.eService.ExportCompound(ctx, id)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", file.Name, url.PathEscape(file.Name)))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
