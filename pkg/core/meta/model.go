package meta

type Kind string

const (
	KindCategory   Kind = "loai-hc"
	KindStatePhase Kind = "trang-thai"
	KindColor      Kind = "mau"
	KindSolvent    Kind = "nmr-solvent"
	KindStatus     Kind = "status"
)

var Kinds = []Kind{KindCategory, KindStatePhase, KindColor, KindSolvent, KindStatus}

type NextNumberResp struct {
	Next int64 `json:"next"`
}

type PubChemReq struct {
	Name string `form:"name" binding:"required"`
}
