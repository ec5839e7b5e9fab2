package excel

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/xuri/excelize/v2"
)

const (
	SheetGeneral  = "Thông tin chung"
	SheetSpectra  = "Phổ"
	placeholder   = "-"
	notAvailable  = "N/A"
	maxSheetName  = 31
	maxImageWidth = 480.0
	imageRowPx    = 20.0
)

type styles struct {
	header int
	label  int
	link   int
	wrap   int
}

type sheetWriter struct {
	ctx      context.Context
	f        *excelize.File
	resolver *Resolver
	styles   styles
	names    map[string]struct{}
}

// Build lays one compound out as a workbook.
func Build(ctx context.Context, resolver *Resolver, doc *compound.Compound) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf(ctx, "close workbook err: %+v", err)
		}
	}()

	w := &sheetWriter{ctx: ctx, f: f, resolver: resolver, names: map[string]struct{}{}}
	if err := w.initStyles(); err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetGeneral); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	w.names[SheetGeneral] = struct{}{}

	if err := w.writeGeneral(doc); err != nil {
		return nil, err
	}
	for i, block := range doc.NMRData {
		if block == nil {
			continue
		}
		if err := w.writeBlock(i+1, block); err != nil {
			return nil, err
		}
	}
	if err := w.writeSpectra(&doc.Pho); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

func (w *sheetWriter) initStyles() error {
	var err error
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	if w.styles.header, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if w.styles.label, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "top"},
	}); err != nil {
		return fmt.Errorf("create label style: %w", err)
	}
	if w.styles.link, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "1265BE", Underline: "single"},
	}); err != nil {
		return fmt.Errorf("create link style: %w", err)
	}
	if w.styles.wrap, err = w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}); err != nil {
		return fmt.Errorf("create wrap style: %w", err)
	}
	return nil
}

// sheetName truncates to the workbook limit and keeps names unique.
func (w *sheetWriter) sheetName(want string) string {
	name := truncateRunes(want, maxSheetName)
	for i := 2; ; i++ {
		if _, taken := w.names[name]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(want, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	w.names[name] = struct{}{}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (w *sheetWriter) newSheet(want string) (string, error) {
	name := w.sheetName(want)
	if _, err := w.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("create sheet %s: %w", name, err)
	}
	return name, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Có"
	}
	return "Không"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func (w *sheetWriter) setHeader(sheet string, row int, titles ...string) error {
	for i, title := range titles {
		if err := w.f.SetCellValue(sheet, cell(i+1, row), title); err != nil {
			return err
		}
	}
	return w.f.SetCellStyle(sheet, cell(1, row), cell(len(titles), row), w.styles.header)
}

// setFormula writes formula markup as rich text, or plain text when there is none.
func (w *sheetWriter) setFormula(sheet, at, value string) error {
	if strings.TrimSpace(value) == "" {
		return w.f.SetCellValue(sheet, at, placeholder)
	}
	runs := ParseFormula(value)
	if !hasScript(runs) {
		return w.f.SetCellValue(sheet, at, value)
	}
	return w.f.SetCellRichText(sheet, at, richText(runs))
}

func (w *sheetWriter) setLink(sheet, at, ref string) error {
	link := w.resolver.Link(ref)
	if link == "" {
		text := ref
		if strings.HasPrefix(ref, "data:") {
			text = "(ảnh nhúng)"
		}
		return w.f.SetCellValue(sheet, at, orDash(text))
	}
	if err := w.f.SetCellValue(sheet, at, ref); err != nil {
		return err
	}
	if err := w.f.SetCellHyperLink(sheet, at, link, "External"); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, at, at, w.styles.link)
}

// placeImage embeds the referenced image at the cell and returns the number of
// rows it covers. It returns 0 when the reference is not an embeddable image.
func (w *sheetWriter) placeImage(sheet, at, ref string) int {
	if w.resolver == nil || strings.TrimSpace(ref) == "" {
		return 0
	}
	img, err := w.resolver.Resolve(w.ctx, ref)
	if err != nil {
		logger.Warnf(w.ctx, "resolve image %s err: %v", truncateRunes(ref, 80), err)
		return 0
	}
	if !img.Embeddable() {
		return 0
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0
	}
	scale := 1.0
	if float64(cfg.Width) > maxImageWidth {
		scale = maxImageWidth / float64(cfg.Width)
	}
	if err := w.f.AddPictureFromBytes(sheet, at, &excelize.Picture{
		Extension: img.Ext,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			ScaleX:          scale,
			ScaleY:          scale,
			OffsetX:         4,
			OffsetY:         4,
			Positioning:     "oneCell",
			LockAspectRatio: true,
		},
	}); err != nil {
		logger.Warnf(w.ctx, "embed image %s err: %v", truncateRunes(ref, 80), err)
		return 0
	}
	return int(float64(cfg.Height)*scale/imageRowPx) + 1
}

func (w *sheetWriter) writeGeneral(doc *compound.Compound) error {
	sheet := SheetGeneral
	if err := w.setHeader(sheet, 1, "Thuộc tính", "Giá trị"); err != nil {
		return err
	}
	type field struct {
		label   string
		value   string
		formula bool
	}
	sttHC := placeholder
	if doc.SttHC > 0 {
		sttHC = fmt.Sprintf("%d", doc.SttHC)
	}
	fields := []field{
		{"STT hợp chất", sttHC, false},
		{"Tên hợp chất", orDash(doc.TenHC), false},
		{"Tên khác", orDash(doc.TenHCKhac), false},
		{"Loại hợp chất", orDash(doc.LoaiHC), false},
		{"Tình trạng", orDash(doc.Status), false},
		{"Trạng thái", orDash(doc.TrangThai), false},
		{"Màu", orDash(doc.Mau), false},
		{"Nguồn gốc", orDash(doc.NguonGoc), false},
		{"Tác giả", orDash(doc.TacGia), false},
		{"Điểm nóng chảy", orDash(doc.DiemNongChay), false},
		{"[α]D", orDash(doc.AlphaD), false},
		{"Khối lượng phân tử", orDash(doc.Klpt), false},
		{"Cấu hình tuyệt đối", yesNo(doc.CauHinhTuyetDoi), false},
		{"Công thức cấu tạo", doc.Ctct, true},
		{"UV 254 nm", yesNo(doc.UVSklm.NM254), false},
		{"UV 365 nm", yesNo(doc.UVSklm.NM365), false},
		{"Công thức phân tử", doc.Ctpt, true},
		{"SMILES", orDash(doc.Smiles), false},
		{"Số bảng NMR", fmt.Sprintf("%d", len(doc.NMRData)), false},
		{"Ngày tạo", formatTime(doc.CreatedAt), false},
		{"Cập nhật", formatTime(doc.UpdatedAt), false},
	}
	row := 2
	for _, fd := range fields {
		if err := w.f.SetCellValue(sheet, cell(1, row), fd.label); err != nil {
			return err
		}
		var err error
		if fd.formula {
			err = w.setFormula(sheet, cell(2, row), fd.value)
		} else {
			err = w.f.SetCellValue(sheet, cell(2, row), fd.value)
		}
		if err != nil {
			return err
		}
		row++
	}
	if err := w.f.SetCellStyle(sheet, cell(1, 2), cell(1, row-1), w.styles.label); err != nil {
		return err
	}

	if err := w.f.SetCellValue(sheet, cell(1, row), "Hình cấu trúc"); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, cell(1, row), cell(1, row), w.styles.label); err != nil {
		return err
	}
	ref := strings.TrimSpace(doc.HinhCauTruc)
	switch {
	case ref == "":
		if err := w.f.SetCellValue(sheet, cell(2, row), notAvailable); err != nil {
			return err
		}
	case w.placeImage(sheet, cell(2, row), ref) == 0:
		if err := w.setLink(sheet, cell(2, row), ref); err != nil {
			return err
		}
	}

	if err := w.f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "B", "B", 60)
}

func (w *sheetWriter) writeBlock(n int, block *compound.NMRBlock) error {
	label := block.SttBang
	if label == "" {
		label = fmt.Sprintf("%d", n)
	}

	sheet, err := w.newSheet(fmt.Sprintf("NMR %d", n))
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Bảng %s - Dung môi: %s", label, orDash(block.NMRConditions.DungMoi))
	if err := w.f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", "A1", w.styles.label); err != nil {
		return err
	}
	if err := w.setHeader(sheet, 2, "STT", "Vị trí", "δC (ppm)", "δH (J, Hz)"); err != nil {
		return err
	}
	row := 3
	for i, s := range block.Signals {
		if s == nil {
			continue
		}
		order := s.ThuTu
		if order == "" {
			order = fmt.Sprintf("%d", i+1)
		}
		for col, v := range []string{order, orDash(s.ViTri), orDash(s.Scab), orDash(s.ShacJHz)} {
			if err := w.f.SetCellValue(sheet, cell(col+1, row), v); err != nil {
				return err
			}
		}
		row++
	}
	if row == 3 {
		if err := w.f.SetCellValue(sheet, "A3", "Không có tín hiệu"); err != nil {
			return err
		}
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 8); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "B", "D", 22); err != nil {
		return err
	}

	detail, err := w.newSheet(fmt.Sprintf("NMR %d - Chi tiết", n))
	if err != nil {
		return err
	}
	if err := w.setHeader(detail, 1, "Thuộc tính", "Giá trị"); err != nil {
		return err
	}
	rows := [][2]string{
		{"STT bảng", orDash(block.SttBang)},
		{"Dung môi", orDash(block.NMRConditions.DungMoi)},
		{"Tần số 13C", orDash(block.NMRConditions.TanSo13C)},
		{"Tần số 1H", orDash(block.NMRConditions.TanSo1H)},
		{"Số tín hiệu", fmt.Sprintf("%d", len(block.Signals))},
		{"Lưu ý", orDash(block.LuuY)},
		{"Tài liệu tham khảo", orDash(block.Tltk)},
	}
	for i, kv := range rows {
		if err := w.f.SetCellValue(detail, cell(1, i+2), kv[0]); err != nil {
			return err
		}
		if err := w.f.SetCellValue(detail, cell(2, i+2), kv[1]); err != nil {
			return err
		}
	}
	last := len(rows) + 1
	if err := w.f.SetCellStyle(detail, "A2", cell(1, last), w.styles.label); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(detail, "B2", cell(2, last), w.styles.wrap); err != nil {
		return err
	}
	if err := w.f.SetColWidth(detail, "A", "A", 22); err != nil {
		return err
	}
	return w.f.SetColWidth(detail, "B", "B", 70)
}

func (w *sheetWriter) writeSpectra(pho *compound.SpectralRecord) error {
	sheet, err := w.newSheet(SheetSpectra)
	if err != nil {
		return err
	}
	if err := w.setHeader(sheet, 1, "Loại phổ", "Tệp", "Hình"); err != nil {
		return err
	}
	row := 2
	for _, ch := range pho.Channels() {
		files := *ch.Files
		if len(files) == 0 {
			if err := w.f.SetCellValue(sheet, cell(1, row), ch.Label); err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell(2, row), notAvailable); err != nil {
				return err
			}
			row++
			continue
		}
		for _, ref := range files {
			if err := w.f.SetCellValue(sheet, cell(1, row), ch.Label); err != nil {
				return err
			}
			if err := w.setLink(sheet, cell(2, row), ref); err != nil {
				return err
			}
			span := w.placeImage(sheet, cell(3, row), ref)
			if span > 1 {
				row += span
				continue
			}
			row++
		}
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "C", "C", 70)
}
