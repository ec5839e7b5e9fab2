package compound

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/repo"
	"github.com/scienceol/chemdb/pkg/repo/model"
	"gorm.io/datatypes"
)

var errEmptyStored = errors.New("empty stored value")

// decodeStored decodes a JSON column. Some drivers hand back the JSON text wrapped
// in a JSON string; that form is unwrapped once before decoding.
func decodeStored(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errEmptyStored
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		raw = []byte(inner)
	}
	return json.Unmarshal(raw, dst)
}

func decodeUV(raw datatypes.JSON) compound.UVPair {
	uv := compound.UVPair{}
	if err := decodeStored(raw, &uv); err != nil {
		return compound.UVPair{}
	}
	return uv
}

func decodeSpectra(raw datatypes.JSON) compound.SpectralRecord {
	pho := compound.SpectralRecord{}
	if err := decodeStored(raw, &pho); err != nil {
		pho = compound.SpectralRecord{}
	}
	pho.Normalize()
	return pho
}

func formatNumber(n int64) string {
	if n <= 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDocument(c *model.Compound) *compound.Compound {
	return &compound.Compound{
		ID:              c.UUID,
		SttHC:           c.SerialNumber,
		TenHC:           c.Name,
		TenHCKhac:       c.AltNames,
		LoaiHC:          c.Category,
		Status:          c.Status,
		TrangThai:       c.StatePhase,
		Mau:             c.Color,
		NguonGoc:        c.Origin,
		TacGia:          c.Author,
		DiemNongChay:    c.MeltingPoint,
		AlphaD:          c.OpticalRotation,
		Klpt:            c.MolecularWeight,
		CauHinhTuyetDoi: c.AbsoluteConfig,
		Ctct:            c.StructuralFormula,
		UVSklm:          decodeUV(c.UVIndicator),
		Ctpt:            c.MolecularFormula,
		HinhCauTruc:     c.StructureImage,
		Smiles:          c.Smiles,
		Pho:             decodeSpectra(c.Spectra),
		NMRData:         []*compound.NMRBlock{},
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// assemble groups joined rows by compound, keeping first-seen order, and attaches
// the signals of every block.
func assemble(rows []*repo.CompoundBlockRow, signals []*model.NMRSignal) []*compound.Compound {
	byBlock := make(map[int64][]*compound.Signal)
	for _, s := range signals {
		byBlock[s.BlockID] = append(byBlock[s.BlockID], &compound.Signal{
			ID:      s.UUID,
			ViTri:   s.Position,
			Scab:    s.CarbonShift,
			ShacJHz: s.ProtonShift,
			ThuTu:   formatNumber(int64(s.SortOrder)),
		})
	}

	docs := make([]*compound.Compound, 0)
	index := make(map[int64]*compound.Compound)
	for _, row := range rows {
		doc, ok := index[row.ID]
		if !ok {
			doc = toDocument(&row.Compound)
			index[row.ID] = doc
			docs = append(docs, doc)
		}
		if row.BlockID == nil {
			continue
		}
		blockSignals := byBlock[*row.BlockID]
		if blockSignals == nil {
			blockSignals = []*compound.Signal{}
		}
		blockUUID := uuid.Nil
		if row.BlockUUID.Valid {
			blockUUID = row.BlockUUID.UUID
		}
		doc.NMRData = append(doc.NMRData, &compound.NMRBlock{
			ID:      blockUUID,
			SttBang: formatNumber(*row.BlockID),
			NMRConditions: compound.NMRConditions{
				DungMoi:  deref(row.BlockSolvent),
				TanSo13C: deref(row.BlockFreq13C),
				TanSo1H:  deref(row.BlockFreq1H),
			},
			Signals: blockSignals,
			LuuY:    deref(row.BlockNotes),
			Tltk:    deref(row.BlockReferences),
		})
	}
	return docs
}

func blockIDs(rows []*repo.CompoundBlockRow) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.BlockID != nil {
			ids = append(ids, *row.BlockID)
		}
	}
	return ids
}

// toModel encodes the document into its compound row. Blocks are converted
// separately by toBlockModels.
func toModel(doc *compound.Compound) (*model.Compound, error) {
	uv, err := json.Marshal(doc.UVSklm)
	if err != nil {
		return nil, err
	}
	pho := doc.Pho
	pho.Normalize()
	spectra, err := json.Marshal(pho)
	if err != nil {
		return nil, err
	}
	return &model.Compound{
		SerialNumber:      doc.SttHC,
		Name:              doc.TenHC,
		AltNames:          doc.TenHCKhac,
		Category:          doc.LoaiHC,
		Status:            doc.Status,
		StatePhase:        doc.TrangThai,
		Color:             doc.Mau,
		Origin:            doc.NguonGoc,
		Author:            doc.TacGia,
		MeltingPoint:      doc.DiemNongChay,
		OpticalRotation:   doc.AlphaD,
		MolecularWeight:   doc.Klpt,
		AbsoluteConfig:    doc.CauHinhTuyetDoi,
		StructuralFormula: doc.Ctct,
		UVIndicator:       datatypes.JSON(uv),
		MolecularFormula:  doc.Ctpt,
		StructureImage:    doc.HinhCauTruc,
		Smiles:            doc.Smiles,
		Spectra:           datatypes.JSON(spectra),
	}, nil
}

// toBlockModels never carries ids or table numbers; both are assigned on insert.
func toBlockModels(blocks []*compound.NMRBlock) []*model.NMRBlock {
	out := make([]*model.NMRBlock, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		block := &model.NMRBlock{
			Solvent:    b.NMRConditions.DungMoi,
			Freq13C:    b.NMRConditions.TanSo13C,
			Freq1H:     b.NMRConditions.TanSo1H,
			Notes:      b.LuuY,
			References: b.Tltk,
			Signals:    make([]*model.NMRSignal, 0, len(b.Signals)),
		}
		for i, s := range b.Signals {
			if s == nil {
				continue
			}
			block.Signals = append(block.Signals, &model.NMRSignal{
				Position:    s.ViTri,
				CarbonShift: s.Scab,
				ProtonShift: s.ShacJHz,
				SortOrder:   i + 1,
			})
		}
		out = append(out, block)
	}
	return out
}
