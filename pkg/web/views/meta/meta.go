package meta

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/core/meta"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

type Handle struct {
	mService meta.Service
}

func NewMetaHandle(mService meta.Service) *Handle {
	return &Handle{mService: mService}
}

func (h *Handle) Values(ctx *gin.Context) {
	values, err := h.mService.Values(ctx, meta.Kind(ctx.Param("kind")))
	common.Reply(ctx, err, values)
}

func (h *Handle) NextSerialNumber(ctx *gin.Context) {
	next, err := h.mService.NextSerialNumber(ctx)
	common.Reply(ctx, err, &meta.NextNumberResp{Next: next})
}

func (h *Handle) NextTableNumber(ctx *gin.Context) {
	next, err := h.mService.NextTableNumber(ctx)
	common.Reply(ctx, err, &meta.NextNumberResp{Next: next})
}

func (h *Handle) PubChem(ctx *gin.Context) {
	req := &meta.PubChemReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse PubChem param err: %+v", err.Error())
		common.ReplyErr(ctx, common.BindErr(err))
		return
	}
	info, err := h.mService.LookupPubChem(ctx, req.Name)
	common.Reply(ctx, err, info)
}
