package compound

import (
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/utils"
)

func newDocument() *compound.Compound {
	doc := &compound.Compound{
		Status:  compound.StatusNew,
		NMRData: []*compound.NMRBlock{},
	}
	doc.Pho.Normalize()
	return doc
}

func placeholderBlock() *compound.NMRBlock {
	return &compound.NMRBlock{Signals: []*compound.Signal{}}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// applyInput copies every submitted field onto doc. Spectral channels merge one by
// one; blocks are replaced as a whole when submitted.
func applyInput(doc *compound.Compound, in *compound.CompoundInput) {
	if in.SttHC != nil {
		doc.SttHC = *in.SttHC
	}
	setString(&doc.TenHC, in.TenHC)
	setString(&doc.TenHCKhac, in.TenHCKhac)
	setString(&doc.LoaiHC, in.LoaiHC)
	setString(&doc.Status, in.Status)
	setString(&doc.TrangThai, in.TrangThai)
	setString(&doc.Mau, in.Mau)
	setString(&doc.NguonGoc, in.NguonGoc)
	setString(&doc.TacGia, in.TacGia)
	setString(&doc.DiemNongChay, in.DiemNongChay)
	setString(&doc.AlphaD, in.AlphaD)
	setString(&doc.Klpt, in.Klpt)
	if in.CauHinhTuyetDoi != nil {
		doc.CauHinhTuyetDoi = *in.CauHinhTuyetDoi
	}
	setString(&doc.Ctct, in.Ctct)
	if in.UVSklm != nil {
		doc.UVSklm = *in.UVSklm
	}
	setString(&doc.Ctpt, in.Ctpt)
	setString(&doc.HinhCauTruc, in.HinhCauTruc)
	setString(&doc.Smiles, in.Smiles)
	if in.Pho != nil {
		current := doc.Pho.Channels()
		for i, ch := range in.Pho.Channels() {
			if *ch.Files != nil {
				*current[i].Files = append(compound.FileList{}, (*ch.Files)...)
			}
		}
	}
	doc.Pho.Normalize()
	if in.NMRData != nil {
		doc.NMRData = in.NMRData
	}
}

func clone(doc *compound.Compound) *compound.Compound {
	c := *doc
	src := doc.Pho.Channels()
	for i, ch := range c.Pho.Channels() {
		*ch.Files = append(compound.FileList{}, (*src[i].Files)...)
	}
	c.NMRData = append([]*compound.NMRBlock{}, doc.NMRData...)
	return &c
}

// staleFiles lists references the old document held that the new one dropped,
// compared per channel and for the structure image. A reference still used
// anywhere in the new document is kept.
func staleFiles(old, updated *compound.Compound) []string {
	stale := make([]string, 0)
	oldChannels := old.Pho.Channels()
	newChannels := updated.Pho.Channels()
	for i := range oldChannels {
		stale = append(stale, utils.Difference([]string(*oldChannels[i].Files), []string(*newChannels[i].Files))...)
	}
	if old.HinhCauTruc != "" && old.HinhCauTruc != updated.HinhCauTruc {
		stale = append(stale, old.HinhCauTruc)
	}

	return utils.Difference(stale, updated.FileRefs())
}
