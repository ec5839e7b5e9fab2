package compound

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/scienceol/chemdb/internal/testutil"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/core/storage"
	storageImpl "github.com/scienceol/chemdb/pkg/core/storage/storage"
	"github.com/scienceol/chemdb/pkg/middleware/db"
	repoCompound "github.com/scienceol/chemdb/pkg/repo/compound"
	"github.com/scienceol/chemdb/pkg/repo/model"
	"github.com/scienceol/chemdb/pkg/repo/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   compound.Service
	ds    *db.Datastore
	store *objectstore.Memory
	cache *countingCache
}

type countingCache struct{ calls int }

func (c *countingCache) Invalidate(context.Context) { c.calls++ }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds := testutil.NewDatastore(t)
	mem := objectstore.NewMemory("bucket")
	files := storageImpl.New(mem, storageImpl.Config{Workers: 2})
	t.Cleanup(files.Close)
	cache := &countingCache{}
	return &fixture{
		svc:   New(repoCompound.NewCompoundImpl(ds), files, cache),
		ds:    ds,
		store: mem,
		cache: cache,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func baseInput(name string) *compound.CompoundInput {
	return &compound.CompoundInput{
		TenHC:     ptr(name),
		LoaiHC:    ptr("Terpene"),
		Status:    ptr(compound.StatusNew),
		TrangThai: ptr("Bột"),
		Mau:       ptr("Trắng"),
	}
}

func TestCreateTaxolScenario(t *testing.T) {
	f := newFixture(t)
	in := baseInput("Taxol")
	in.NMRData = []*compound.NMRBlock{{
		Signals: []*compound.Signal{{ViTri: "1", Scab: "34,1", ShacJHz: "1,83 m"}},
	}}

	doc, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, doc.NMRData, 1)
	assert.Equal(t, "1", doc.NMRData[0].SttBang)
	require.Len(t, doc.NMRData[0].Signals, 1)
	assert.Equal(t, "1", doc.NMRData[0].Signals[0].ViTri)
	assert.Equal(t, "34,1", doc.NMRData[0].Signals[0].Scab)
	assert.Equal(t, "1,83 m", doc.NMRData[0].Signals[0].ShacJHz)
	assert.Equal(t, int64(1), doc.SttHC)
	assert.False(t, doc.ID.IsNil())
	assert.Equal(t, 1, f.cache.calls)
}

func TestCreateManyBlocksKeepsSignalOrder(t *testing.T) {
	f := newFixture(t)
	in := baseInput("Multi")
	in.NMRData = []*compound.NMRBlock{
		{NMRConditions: compound.NMRConditions{DungMoi: "CDCl3"}, Signals: []*compound.Signal{{ViTri: "a"}, {ViTri: "b"}}},
		{NMRConditions: compound.NMRConditions{DungMoi: "DMSO-d6"}},
		{NMRConditions: compound.NMRConditions{DungMoi: "CD3OD"}, Signals: []*compound.Signal{{ViTri: "z"}, {ViTri: "y"}, {ViTri: "x"}}},
	}

	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	doc, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, doc.NMRData, 3)

	seen := map[string]bool{}
	for _, b := range doc.NMRData {
		assert.NotEmpty(t, b.SttBang)
		assert.False(t, seen[b.SttBang], "table number %s reused", b.SttBang)
		seen[b.SttBang] = true
	}
	assert.Equal(t, "CDCl3", doc.NMRData[0].NMRConditions.DungMoi)
	assert.Empty(t, doc.NMRData[1].Signals)
	assert.NotNil(t, doc.NMRData[1].Signals)

	positions := []string{}
	orders := []string{}
	for _, s := range doc.NMRData[2].Signals {
		positions = append(positions, s.ViTri)
		orders = append(orders, s.ThuTu)
	}
	assert.Equal(t, []string{"z", "y", "x"}, positions)
	assert.Equal(t, []string{"1", "2", "3"}, orders)
}

func TestCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	in := &compound.CompoundInput{
		SttHC:           ptr(int64(42)),
		TenHC:           ptr("Paclitaxel"),
		TenHCKhac:       ptr("Taxol A"),
		LoaiHC:          ptr("Diterpene"),
		Status:          ptr(compound.StatusVerified),
		TrangThai:       ptr("Tinh thể"),
		Mau:             ptr("Không màu"),
		NguonGoc:        ptr("Taxus brevifolia"),
		TacGia:          ptr("Nguyễn Văn A"),
		DiemNongChay:    ptr("213-216 °C"),
		AlphaD:          ptr("-49 (c 1.0, MeOH)"),
		Klpt:            ptr("853.9"),
		CauHinhTuyetDoi: ptr(true),
		Ctct:            ptr("C_{47}H_{51}NO_{14}"),
		UVSklm:          &compound.UVPair{NM254: true, NM365: false},
		Ctpt:            ptr("C47H51NO14"),
		HinhCauTruc:     ptr("/bucket/structure.png"),
		Smiles:          ptr("CC1=C2C(C(=O)C3"),
		Pho: &compound.SpectralRecord{
			HNMR: compound.FileList{"/bucket/h1.png", "/bucket/h2.pdf"},
			HRMS: compound.FileList{"/bucket/ms.png"},
		},
		NMRData: []*compound.NMRBlock{{
			NMRConditions: compound.NMRConditions{DungMoi: "CDCl3", TanSo13C: "125 MHz", TanSo1H: "500 MHz"},
			Signals:       []*compound.Signal{{ViTri: "1", Scab: "79,1", ShacJHz: "-"}, {ViTri: "2", Scab: "75,0; 74,9", ShacJHz: "5,67 d (7,0)"}},
			LuuY:          "overlapping",
			Tltk:          "J. Nat. Prod. 1990",
		}},
	}

	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(42), got.SttHC)
	assert.Equal(t, "Paclitaxel", got.TenHC)
	assert.Equal(t, "Taxol A", got.TenHCKhac)
	assert.Equal(t, "Diterpene", got.LoaiHC)
	assert.Equal(t, compound.StatusVerified, got.Status)
	assert.Equal(t, "Tinh thể", got.TrangThai)
	assert.Equal(t, "Không màu", got.Mau)
	assert.Equal(t, "Taxus brevifolia", got.NguonGoc)
	assert.Equal(t, "Nguyễn Văn A", got.TacGia)
	assert.Equal(t, "213-216 °C", got.DiemNongChay)
	assert.Equal(t, "-49 (c 1.0, MeOH)", got.AlphaD)
	assert.Equal(t, "853.9", got.Klpt)
	assert.True(t, got.CauHinhTuyetDoi)
	assert.Equal(t, "C_{47}H_{51}NO_{14}", got.Ctct)
	assert.Equal(t, compound.UVPair{NM254: true}, got.UVSklm)
	assert.Equal(t, "C47H51NO14", got.Ctpt)
	assert.Equal(t, "/bucket/structure.png", got.HinhCauTruc)
	assert.Equal(t, "CC1=C2C(C(=O)C3", got.Smiles)
	assert.Equal(t, compound.FileList{"/bucket/h1.png", "/bucket/h2.pdf"}, got.Pho.HNMR)
	assert.Equal(t, compound.FileList{"/bucket/ms.png"}, got.Pho.HRMS)
	assert.Equal(t, compound.FileList{}, got.Pho.CNMR)

	require.Len(t, got.NMRData, 1)
	block := got.NMRData[0]
	assert.Equal(t, in.NMRData[0].NMRConditions, block.NMRConditions)
	assert.Equal(t, "overlapping", block.LuuY)
	assert.Equal(t, "J. Nat. Prod. 1990", block.Tltk)
	require.Len(t, block.Signals, 2)
	assert.Equal(t, "75,0; 74,9", block.Signals[1].Scab)
	assert.Equal(t, "5,67 d (7,0)", block.Signals[1].ShacJHz)
}

func TestCreateLegacySingleStringChannel(t *testing.T) {
	f := newFixture(t)
	body := `{"tenHC":"Legacy","loaiHC":"Alkaloid","status":"Mới","trangThai":"Dầu","mau":"Vàng",
		"pho":{"hnmr":"/bucket/one.png","cnmr":"","ir":null}}`
	in := &compound.CompoundInput{}
	require.NoError(t, json.Unmarshal([]byte(body), in))

	doc, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, compound.FileList{"/bucket/one.png"}, doc.Pho.HNMR)
	assert.Equal(t, compound.FileList{}, doc.Pho.CNMR)
	assert.Equal(t, compound.FileList{}, doc.Pho.IR)
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, baseInput("Placeholder"))
	require.NoError(t, err)
	require.Len(t, doc.NMRData, 1)
	assert.Empty(t, doc.NMRData[0].Signals)

	in := baseInput("Empty blocks")
	in.NMRData = []*compound.NMRBlock{}
	_, err = f.svc.Create(ctx, in)
	require.ErrorIs(t, err, code.ParamErr)
	assert.Contains(t, code.Parse(err).Fields, "nmrData")

	in = baseInput("Bad status")
	in.Status = ptr("Unknown")
	_, err = f.svc.Create(ctx, in)
	require.ErrorIs(t, err, code.ParamErr)
	assert.Contains(t, code.Parse(err).Fields, "status")

	_, err = f.svc.Create(ctx, &compound.CompoundInput{TenHC: ptr("only name")})
	require.ErrorIs(t, err, code.ParamErr)
	fields := code.Parse(err).Fields
	for _, name := range []string{"loaiHC", "status", "trangThai", "mau"} {
		assert.Contains(t, fields, name)
	}

	in = baseInput("Duplicate")
	in.SttHC = ptr(doc.SttHC)
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, code.CompoundDuplicateErr)
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), uuid.NewV4())
	assert.ErrorIs(t, err, code.CompoundNotFound)

	_, err = f.svc.Get(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, code.ParamErr)
}

func TestUpdateMergesByPresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Original")
	in.TenHCKhac = ptr("Alias")
	in.Pho = &compound.SpectralRecord{HNMR: compound.FileList{"/bucket/h.png"}, IR: compound.FileList{"/bucket/ir.pdf"}}
	in.NMRData = []*compound.NMRBlock{{Signals: []*compound.Signal{{ViTri: "1"}}}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		TenHC: ptr("Renamed"),
		Pho:   &compound.SpectralRecord{IR: compound.FileList{"/bucket/ir.pdf", "/bucket/ir2.pdf"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.TenHC)
	assert.Equal(t, "Alias", updated.TenHCKhac)
	assert.Equal(t, "Terpene", updated.LoaiHC)
	assert.Equal(t, created.SttHC, updated.SttHC)
	assert.Equal(t, compound.FileList{"/bucket/h.png"}, updated.Pho.HNMR)
	assert.Equal(t, compound.FileList{"/bucket/ir.pdf", "/bucket/ir2.pdf"}, updated.Pho.IR)
	require.Len(t, updated.NMRData, 1)
	assert.Equal(t, created.NMRData[0].SttBang, updated.NMRData[0].SttBang)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	assert.Empty(t, f.store.Deletes())
}

func TestUpdateReplacesBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Blocks")
	in.NMRData = []*compound.NMRBlock{{Signals: []*compound.Signal{{ViTri: "old"}}}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		NMRData: []*compound.NMRBlock{
			{Signals: []*compound.Signal{{ViTri: "n1"}}},
			{Signals: []*compound.Signal{{ViTri: "n2"}, {ViTri: "n3"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.NMRData, 2)
	assert.NotEqual(t, created.NMRData[0].SttBang, updated.NMRData[0].SttBang)
	assert.Equal(t, "n1", updated.NMRData[0].Signals[0].ViTri)

	assert.Equal(t, int64(2), countRows(t, f.ds, &model.NMRBlock{}))
	assert.Equal(t, int64(3), countRows(t, f.ds, &model.NMRSignal{}))

	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{NMRData: []*compound.NMRBlock{}})
	assert.ErrorIs(t, err, code.ParamErr)
}

func TestUpdateReconcilesRemovedFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Files")
	in.Pho = &compound.SpectralRecord{HRMS: compound.FileList{"/bucket/a.png", "/bucket/b.png"}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		Pho: &compound.SpectralRecord{HRMS: compound.FileList{"/bucket/b.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, f.store.Deletes())
}

func TestUpdateKeepsFileMovedBetweenChannels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Moved")
	in.Pho = &compound.SpectralRecord{HNMR: compound.FileList{"/bucket/moved.png", "/bucket/gone.png"}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		Pho: &compound.SpectralRecord{
			HNMR: compound.FileList{},
			CNMR: compound.FileList{"/bucket/moved.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, compound.FileList{"/bucket/moved.png"}, updated.Pho.CNMR)
	assert.Equal(t, []string{"gone.png"}, f.store.Deletes())
}

func TestUpdateReconcilesStructureImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Image")
	in.HinhCauTruc = ptr("/bucket/old.png")
	in.Pho = &compound.SpectralRecord{IR: compound.FileList{"/bucket/shared.png"}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{HinhCauTruc: ptr("/bucket/new.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{"old.png"}, f.store.Deletes())

	f.store.ResetDeletes()
	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		HinhCauTruc: ptr("/bucket/shared.png"),
		Pho:         &compound.SpectralRecord{IR: compound.FileList{}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new.png"}, f.store.Deletes())
}

func TestUpdateFailedFileDeleteDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := baseInput("Sticky")
	in.Pho = &compound.SpectralRecord{HRMS: compound.FileList{"/bucket/a.png"}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	f.store.FailDelete("a.png")

	updated, err := f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		TenHC: ptr("Sticky 2"),
		Pho:   &compound.SpectralRecord{HRMS: compound.FileList{}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sticky 2", updated.TenHC)
	assert.Empty(t, updated.Pho.HRMS)
	assert.Equal(t, []string{"a.png"}, f.store.Deletes())
}

func TestUpdateStaleTimestampConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, baseInput("Concurrent"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		TenHC:     ptr("Late writer"),
		UpdatedAt: ptr(created.UpdatedAt.Add(-time.Second)),
	})
	require.ErrorIs(t, err, code.UpdateConflictErr)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concurrent", got.TenHC)

	_, err = f.svc.Update(ctx, created.ID, &compound.CompoundInput{
		TenHC:     ptr("Current writer"),
		UpdatedAt: ptr(created.UpdatedAt),
	})
	require.NoError(t, err)
}

func TestUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), uuid.NewV4(), &compound.CompoundInput{TenHC: ptr("x")})
	assert.ErrorIs(t, err, code.CompoundNotFound)
}

func TestDeleteCascadesAndReconciles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep, err := f.svc.Create(ctx, baseInput("Keep"))
	require.NoError(t, err)

	in := baseInput("Doomed")
	in.HinhCauTruc = ptr("/bucket/s.png")
	in.Pho = &compound.SpectralRecord{
		HNMR: compound.FileList{"/bucket/h.png", "/bucket/s.png"},
		IR:   compound.FileList{"/bucket/ir.pdf"},
		UV:   compound.FileList{"https://elsewhere.example.com/uv.png"},
	}
	in.NMRData = []*compound.NMRBlock{
		{Signals: []*compound.Signal{{ViTri: "1"}, {ViTri: "2"}}},
		{Signals: []*compound.Signal{{ViTri: "3"}}},
	}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	res, err := f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	require.Len(t, res.Files, 4)
	statuses := map[storage.OutcomeStatus]int{}
	for _, o := range res.Files {
		statuses[o.Status]++
	}
	assert.Equal(t, 3, statuses[storage.OutcomeDeleted])
	assert.Equal(t, 1, statuses[storage.OutcomeSkipped])
	assert.ElementsMatch(t, []string{"s.png", "h.png", "ir.pdf"}, f.store.Deletes())

	assert.Equal(t, int64(1), countRows(t, f.ds, &model.Compound{}))
	assert.Equal(t, int64(1), countRows(t, f.ds, &model.NMRBlock{}))
	assert.Equal(t, int64(0), countRows(t, f.ds, &model.NMRSignal{}))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, code.CompoundNotFound)
	_, err = f.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, code.CompoundNotFound)

	_, err = f.svc.Get(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := f.svc.Create(ctx, baseInput(fmt.Sprintf("Compound %02d", i)))
		require.NoError(t, err)
	}

	req := &compound.ListReq{}
	req.Page = 2
	req.Limit = 10
	page, err := f.svc.List(ctx, req)
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	p := page.Pagination()
	assert.Equal(t, int64(25), p.TotalItems)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 10, p.Limit)
	// newest first: page 2 starts at the 11th newest
	assert.Equal(t, "Compound 14", page.Data[0].TenHC)

	req = &compound.ListReq{}
	req.Page = 3
	req.Limit = 10
	page, err = f.svc.List(ctx, req)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)

	req = &compound.ListReq{}
	req.Limit = 1000
	page, err = f.svc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Len(t, page.Data, 25)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := func(name, category, color string) {
		in := baseInput(name)
		in.LoaiHC = ptr(category)
		in.Mau = ptr(color)
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
	}
	create("Acid alpha", "Alkaloid", "Trắng")
	create("Betulinic acid", "Terpene", "Vàng")
	create("Berberine", "Alkaloid", "Vàng")
	create("100% pure", "Flavonoid", "Trắng")

	names := func(req *compound.ListReq) []string {
		page, err := f.svc.List(ctx, req)
		require.NoError(t, err)
		out := []string{}
		for _, d := range page.Data {
			out = append(out, d.TenHC)
		}
		return out
	}

	assert.Equal(t, []string{"Acid alpha"}, names(&compound.ListReq{SearchTerm: "acid", LoaiHC: []string{"Alkaloid"}}))
	assert.ElementsMatch(t, []string{"Acid alpha", "Betulinic acid"},
		names(&compound.ListReq{SearchTerm: "ACID", LoaiHC: []string{"Alkaloid,Terpene"}}))
	assert.ElementsMatch(t, []string{"Betulinic acid", "Berberine"}, names(&compound.ListReq{Mau: []string{"Vàng"}}))
	assert.Equal(t, []string{"Berberine"}, names(&compound.ListReq{Mau: []string{"Vàng"}, LoaiHC: []string{"Alkaloid"}}))
	assert.ElementsMatch(t, []string{"Acid alpha", "Berberine"}, names(&compound.ListReq{SearchTerm: "alkal"}))
	assert.Equal(t, []string{"100% pure"}, names(&compound.ListReq{SearchTerm: "0%"}))
	assert.Empty(t, names(&compound.ListReq{Status: []string{compound.StatusPublished}}))

	// every filter category narrows the whole search, count included
	req := &compound.ListReq{SearchTerm: "acid", LoaiHC: []string{"Alkaloid"}}
	req.Limit = 1
	page, err := f.svc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination().TotalItems)
	assert.Equal(t, int64(1), page.Pagination().TotalPages)

	req = &compound.ListReq{SearchTerm: "acid", Mau: []string{"Trắng"}, LoaiHC: []string{"Alkaloid,Terpene"}}
	page, err = f.svc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination().TotalItems)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Acid alpha", page.Data[0].TenHC)
}

func countRows(t *testing.T, ds *db.Datastore, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, ds.DBIns().Model(m).Count(&n).Error)
	return n
}
