package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

type Resp struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Success: true}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

func ReplyCreated(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusCreated, &Resp{Success: true, Data: data})
}

// ReplyErr writes the failure envelope. Causes of 5xx codes stay in the log.
func ReplyErr(ctx *gin.Context, err error, msgs ...string) {
	e := code.Parse(err)
	if e == nil {
		e = &code.Error{Code: code.UnDefineErr}
	}
	status := e.Code.HTTPStatus()
	resp := &Resp{Success: false, Error: e.Code.String(), Fields: e.Fields}
	if e.Code.ClientVisible() {
		switch {
		case len(msgs) > 0 && msgs[0] != "":
			resp.Error = msgs[0]
		case e.Msg != "":
			resp.Error = e.Msg
		}
	} else {
		logger.Errorf(ctx, "request %s %s failed: %+v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}
	ctx.AbortWithStatusJSON(status, resp)
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func ReplyPage[T any](ctx *gin.Context, err error, page *PageResp[T]) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &Resp{
		Success:    true,
		Data:       page.Data,
		Pagination: page.Pagination(),
	})
}
