package compound

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/storage"
)

const (
	StatusNew       = "Mới"
	StatusInProcess = "Đang xử lý"
	StatusVerified  = "Đã xác minh"
	StatusPublished = "Đã công bố"
)

var Statuses = []string{StatusNew, StatusInProcess, StatusVerified, StatusPublished}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// FileList is the list of file references held by one spectral channel.
// On the wire it also accepts the legacy single string form.
type FileList []string

func (f *FileList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = FileList{}
			return nil
		}
		*f = FileList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("file list must be a string or an array of strings: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*f = list
	return nil
}

func (f FileList) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

type UVPair struct {
	NM254 bool `json:"nm254"`
	NM365 bool `json:"nm365"`
}

// SpectralRecord holds the files of every spectral channel. A nil channel in an
// update request means "not submitted".
type SpectralRecord struct {
	HNMR  FileList `json:"hnmr"`
	CNMR  FileList `json:"cnmr"`
	DEPT  FileList `json:"dept"`
	HSQC  FileList `json:"hsqc"`
	HMBC  FileList `json:"hmbc"`
	COSY  FileList `json:"cosy"`
	NOESY FileList `json:"noesy"`
	ROESY FileList `json:"roesy"`
	HRMS  FileList `json:"hrms"`
	LRMS  FileList `json:"lrms"`
	IR    FileList `json:"ir"`
	UV    FileList `json:"uv"`
	CD    FileList `json:"cd"`
}

type Channel struct {
	Key   string
	Label string
	Files *FileList
}

// Channels lists the channels in display order.
func (s *SpectralRecord) Channels() []Channel {
	return []Channel{
		{"hnmr", "1H-NMR", &s.HNMR},
		{"cnmr", "13C-NMR", &s.CNMR},
		{"dept", "DEPT", &s.DEPT},
		{"hsqc", "HSQC", &s.HSQC},
		{"hmbc", "HMBC", &s.HMBC},
		{"cosy", "COSY", &s.COSY},
		{"noesy", "NOESY", &s.NOESY},
		{"roesy", "ROESY", &s.ROESY},
		{"hrms", "HRMS", &s.HRMS},
		{"lrms", "LRMS", &s.LRMS},
		{"ir", "IR", &s.IR},
		{"uv", "UV", &s.UV},
		{"cd", "CD", &s.CD},
	}
}

// Normalize replaces nil channels with empty lists.
func (s *SpectralRecord) Normalize() {
	for _, ch := range s.Channels() {
		if *ch.Files == nil {
			*ch.Files = FileList{}
		}
	}
}

// Files returns every reference across channels in channel order.
func (s *SpectralRecord) Files() []string {
	out := make([]string, 0)
	for _, ch := range s.Channels() {
		out = append(out, (*ch.Files)...)
	}
	return out
}

type NMRConditions struct {
	DungMoi  string `json:"dungMoi"`
	TanSo13C string `json:"tanSo13C"`
	TanSo1H  string `json:"tanSo1H"`
}

type Signal struct {
	ID      uuid.UUID `json:"id"`
	ViTri   string    `json:"viTri"`
	Scab    string    `json:"scab"`
	ShacJHz string    `json:"shacJHz"`
	ThuTu   string    `json:"thuTu"`
}

type NMRBlock struct {
	ID            uuid.UUID     `json:"id"`
	SttBang       string        `json:"sttBang"`
	NMRConditions NMRConditions `json:"nmrConditions"`
	Signals       []*Signal     `json:"signals"`
	LuuY          string        `json:"luuY"`
	Tltk          string        `json:"tltk"`
}

// Compound is the aggregate document exchanged with clients.
type Compound struct {
	ID              uuid.UUID      `json:"id"`
	SttHC           int64          `json:"sttHC"`
	TenHC           string         `json:"tenHC"`
	TenHCKhac       string         `json:"tenHCKhac"`
	LoaiHC          string         `json:"loaiHC"`
	Status          string         `json:"status"`
	TrangThai       string         `json:"trangThai"`
	Mau             string         `json:"mau"`
	NguonGoc        string         `json:"nguonGoc"`
	TacGia          string         `json:"tacGia"`
	DiemNongChay    string         `json:"diemNongChay"`
	AlphaD          string         `json:"alphaD"`
	Klpt            string         `json:"klpt"`
	CauHinhTuyetDoi bool           `json:"cauHinhTuyetDoi"`
	Ctct            string         `json:"ctct"`
	UVSklm          UVPair         `json:"uvSklm"`
	Ctpt            string         `json:"ctpt"`
	HinhCauTruc     string         `json:"hinhCauTruc"`
	Smiles          string         `json:"smiles"`
	Pho             SpectralRecord `json:"pho"`
	NMRData         []*NMRBlock    `json:"nmrData"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// FileRefs returns the distinct file references the compound holds.
func (c *Compound) FileRefs() []string {
	refs := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(ref string) {
		if ref == "" {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	add(c.HinhCauTruc)
	for _, ref := range c.Pho.Files() {
		add(ref)
	}
	return refs
}

// CompoundInput is the create and update body. Nil fields were not submitted.
type CompoundInput struct {
	SttHC           *int64          `json:"sttHC" binding:"omitempty,min=1"`
	TenHC           *string         `json:"tenHC"`
	TenHCKhac       *string         `json:"tenHCKhac"`
	LoaiHC          *string         `json:"loaiHC"`
	Status          *string         `json:"status"`
	TrangThai       *string         `json:"trangThai"`
	Mau             *string         `json:"mau"`
	NguonGoc        *string         `json:"nguonGoc"`
	TacGia          *string         `json:"tacGia"`
	DiemNongChay    *string         `json:"diemNongChay"`
	AlphaD          *string         `json:"alphaD"`
	Klpt            *string         `json:"klpt"`
	CauHinhTuyetDoi *bool           `json:"cauHinhTuyetDoi"`
	Ctct            *string         `json:"ctct"`
	UVSklm          *UVPair         `json:"uvSklm"`
	Ctpt            *string         `json:"ctpt"`
	HinhCauTruc     *string         `json:"hinhCauTruc"`
	Smiles          *string         `json:"smiles"`
	Pho             *SpectralRecord `json:"pho"`
	// nil keeps the stored blocks on update; an empty list is rejected.
	NMRData []*NMRBlock `json:"nmrData"`
	// UpdatedAt, when sent on update, must equal the stored value.
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Validate checks required fields on create and non-emptiness of submitted ones.
func (in *CompoundInput) Validate(create bool) error {
	fields := make(map[string]string)
	required := []struct {
		name  string
		value *string
	}{
		{"tenHC", in.TenHC},
		{"loaiHC", in.LoaiHC},
		{"status", in.Status},
		{"trangThai", in.TrangThai},
		{"mau", in.Mau},
	}
	for _, r := range required {
		switch {
		case r.value == nil && create:
			fields[r.name] = "is required"
		case r.value != nil && strings.TrimSpace(*r.value) == "":
			fields[r.name] = "must not be empty"
		}
	}
	if in.Status != nil && fields["status"] == "" && !ValidStatus(*in.Status) {
		fields["status"] = fmt.Sprintf("must be one of [%s]", strings.Join(Statuses, ", "))
	}
	if in.SttHC != nil && *in.SttHC <= 0 {
		fields["sttHC"] = "must be at least 1"
	}
	if in.NMRData != nil && len(in.NMRData) == 0 {
		fields["nmrData"] = "must contain at least one block"
	}
	for i, block := range in.NMRData {
		if block == nil {
			fields[fmt.Sprintf("nmrData[%d]", i)] = "must not be null"
			continue
		}
		for j, s := range block.Signals {
			if s == nil {
				fields[fmt.Sprintf("nmrData[%d].signals[%d]", i, j)] = "must not be null"
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	e := code.ParamErr.WithFields(fields)
	e.Msg = "validation failed"
	return e
}

// ListReq filter values may repeat or be comma separated.
type ListReq struct {
	common.PageReq
	SearchTerm string   `form:"searchTerm"`
	LoaiHC     []string `form:"loaiHC"`
	Status     []string `form:"status"`
	TrangThai  []string `form:"trangThai"`
	Mau        []string `form:"mau"`
}

type DeleteResult struct {
	Deleted bool `json:"deleted"`
	// Files holds one reconciliation outcome per distinct reference.
	Files []*storage.Outcome `json:"files"`
}
