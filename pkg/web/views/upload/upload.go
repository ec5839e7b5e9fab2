package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/core/storage"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

const (
	fieldFile  = "file"
	fieldFiles = "files"
	// maxFilesPerRequest bounds the multiple upload form.
	maxFilesPerRequest = 20
)

type Handle struct {
	sService storage.Service
	maxBody  int64
}

// NewUploadHandle limits request bodies to maxFileBytes per allowed file.
func NewUploadHandle(sService storage.Service, maxFileBytes int64) *Handle {
	h := &Handle{sService: sService}
	if maxFileBytes > 0 {
		h.maxBody = maxFileBytes*maxFilesPerRequest + 1<<20
	}
	return h
}

func (h *Handle) limitBody(ctx *gin.Context) {
	if h.maxBody > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxBody)
	}
}

func formErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return code.UploadTooLargeErr.WithErr(err)
	}
	return code.ParamErr.WithErr(err)
}

func (h *Handle) Upload(ctx *gin.Context) {
	h.limitBody(ctx)
	fh, err := ctx.FormFile(fieldFile)
	if err != nil {
		logger.Errorf(ctx, "parse Upload form err: %+v", err)
		common.ReplyErr(ctx, formErr(err))
		return
	}
	resp, err := h.sService.Upload(ctx, fh)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UploadMany(ctx *gin.Context) {
	h.limitBody(ctx)
	form, err := ctx.MultipartForm()
	if err != nil {
		logger.Errorf(ctx, "parse UploadMany form err: %+v", err)
		common.ReplyErr(ctx, formErr(err))
		return
	}
	files := form.File[fieldFiles]
	if len(files) > maxFilesPerRequest {
		common.ReplyErr(ctx, code.ParamErr.WithMsgf("at most %d files per request", maxFilesPerRequest))
		return
	}
	resp, err := h.sService.UploadMany(ctx, files)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	req := &storage.DeleteReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse DeleteUpload param err: %+v", err.Error())
		common.ReplyErr(ctx, common.BindErr(err))
		return
	}
	common.ReplyOk(ctx, h.sService.Delete(ctx, req.URL))
}
