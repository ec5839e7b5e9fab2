package compound

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/middleware/db"
	"github.com/scienceol/chemdb/pkg/repo"
	"github.com/scienceol/chemdb/pkg/repo/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const joinedColumns = `compound.*,
	nmr_block.id AS block_id,
	nmr_block.uuid AS block_uuid,
	nmr_block.solvent AS block_solvent,
	nmr_block.freq_13c AS block_freq_13c,
	nmr_block.freq_1h AS block_freq_1h,
	nmr_block.notes AS block_notes,
	nmr_block.literature_refs AS block_references`

type compoundImpl struct {
	*db.Datastore
}

func NewCompoundImpl(ds *db.Datastore) repo.CompoundRepo {
	return &compoundImpl{Datastore: ds}
}

func (c *compoundImpl) GetIDByUUID(ctx context.Context, id uuid.UUID) (int64, error) {
	var ids []int64
	if err := c.DBWithContext(ctx).Model(&model.Compound{}).
		Where("uuid = ?", id).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	if len(ids) == 0 {
		return 0, code.RecordNotFound
	}
	return ids[0], nil
}

func (c *compoundImpl) filtered(ctx context.Context, q *repo.CompoundQuery) *gorm.DB {
	query := c.DBWithContext(ctx).Model(&model.Compound{})
	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		// grouped so the category filters below AND onto the whole search
		query = query.Where(`(LOWER(compound.name) LIKE ? ESCAPE '\'`+
			` OR CAST(compound.serial_number AS TEXT) LIKE ? ESCAPE '\'`+
			` OR LOWER(compound.category) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if len(q.Categories) > 0 {
		query = query.Where("compound.category IN ?", q.Categories)
	}
	if len(q.Statuses) > 0 {
		query = query.Where("compound.status IN ?", q.Statuses)
	}
	if len(q.StatePhases) > 0 {
		query = query.Where("compound.state_phase IN ?", q.StatePhases)
	}
	if len(q.Colors) > 0 {
		query = query.Where("compound.color IN ?", q.Colors)
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (c *compoundImpl) ListCompoundIDs(ctx context.Context, q *repo.CompoundQuery) ([]int64, int64, error) {
	var total int64
	if err := c.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	if total == 0 {
		return []int64{}, 0, nil
	}

	ids := make([]int64, 0, q.Limit)
	if err := c.filtered(ctx, q).
		Order("compound.created_at DESC").
		Order("compound.id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Pluck("compound.id", &ids).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return ids, total, nil
}

// GetCompoundRows returns the joined rows in the order of ids, blocks ascending.
func (c *compoundImpl) GetCompoundRows(ctx context.Context, ids []int64) ([]*repo.CompoundBlockRow, error) {
	if len(ids) == 0 {
		return []*repo.CompoundBlockRow{}, nil
	}
	rows := make([]*repo.CompoundBlockRow, 0, len(ids))
	if err := c.DBWithContext(ctx).
		Table("compound").
		Select(joinedColumns).
		Joins("LEFT JOIN nmr_block ON nmr_block.compound_id = compound.id").
		Where("compound.id IN ?", ids).
		Order("compound.id").
		Order("nmr_block.id").
		Scan(&rows).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	pos := make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	ordered := make([]*repo.CompoundBlockRow, 0, len(rows))
	buckets := make([][]*repo.CompoundBlockRow, len(ids))
	for _, row := range rows {
		i := pos[row.ID]
		buckets[i] = append(buckets[i], row)
	}
	for _, b := range buckets {
		ordered = append(ordered, b...)
	}
	return ordered, nil
}

func (c *compoundImpl) GetSignals(ctx context.Context, blockIDs []int64) ([]*model.NMRSignal, error) {
	signals := make([]*model.NMRSignal, 0)
	if len(blockIDs) == 0 {
		return signals, nil
	}
	if err := c.DBWithContext(ctx).
		Where("block_id IN ?", blockIDs).
		Order("block_id").
		Order("sort_order").
		Order("id").
		Find(&signals).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return signals, nil
}

func (c *compoundImpl) CreateCompound(ctx context.Context, data *model.Compound) error {
	if err := c.DBWithContext(ctx).Omit(clause.Associations).Create(data).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return code.CompoundDuplicateErr.WithMsgf("sttHC %d is already in use", data.SerialNumber)
		}
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (c *compoundImpl) UpdateCompound(ctx context.Context, data *model.Compound, stored time.Time) error {
	res := c.DBWithContext(ctx).
		Model(data).
		Where("updated_at = ?", stored).
		Select("*").
		Omit("id", "uuid", "created_at", clause.Associations).
		Updates(data)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return code.CompoundDuplicateErr.WithMsgf("sttHC %d is already in use", data.SerialNumber)
		}
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.UpdateConflictErr
	}
	return nil
}

func (c *compoundImpl) DeleteCompound(ctx context.Context, id int64) (bool, error) {
	if err := c.DeleteBlocks(ctx, id); err != nil {
		return false, err
	}
	res := c.DBWithContext(ctx).Where("id = ?", id).Delete(&model.Compound{})
	if res.Error != nil {
		return false, code.DeleteDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteBlocks removes every block of a compound with its signals. The foreign keys
// cascade as well; deleting explicitly keeps engines without enforced FKs consistent.
func (c *compoundImpl) DeleteBlocks(ctx context.Context, compoundID int64) error {
	d := c.DBWithContext(ctx)
	blockIDs := d.Model(&model.NMRBlock{}).Select("id").Where("compound_id = ?", compoundID)
	if err := d.Where("block_id IN (?)", blockIDs).Delete(&model.NMRSignal{}).Error; err != nil {
		return code.DeleteDataErr.WithErr(err)
	}
	if err := c.DBWithContext(ctx).Where("compound_id = ?", compoundID).Delete(&model.NMRBlock{}).Error; err != nil {
		return code.DeleteDataErr.WithErr(err)
	}
	return nil
}

// InsertBlocks inserts blocks in order so their ids, the table numbers, follow the
// submitted order.
func (c *compoundImpl) InsertBlocks(ctx context.Context, compoundID int64, blocks []*model.NMRBlock) error {
	d := c.DBWithContext(ctx)
	for _, block := range blocks {
		block.ID = 0
		block.CompoundID = compoundID
		if err := d.Omit(clause.Associations).Create(block).Error; err != nil {
			return code.CreateDataErr.WithErr(err)
		}
		if len(block.Signals) == 0 {
			continue
		}
		for i, s := range block.Signals {
			s.ID = 0
			s.BlockID = block.ID
			s.SortOrder = i + 1
		}
		if err := d.Create(&block.Signals).Error; err != nil {
			return code.CreateDataErr.WithErr(err)
		}
	}
	return nil
}

func (c *compoundImpl) DistinctValues(ctx context.Context, column repo.DistinctColumn) ([]string, error) {
	var table any
	switch column {
	case repo.DistinctCategory, repo.DistinctStatePhase, repo.DistinctColor:
		table = &model.Compound{}
	case repo.DistinctSolvent:
		table = &model.NMRBlock{}
	default:
		return nil, code.ParamErr.WithMsgf("unknown column %s", column)
	}

	col := string(column)
	values := make([]string, 0)
	if err := c.DBWithContext(ctx).Model(table).
		Distinct(col).
		Where(col+" IS NOT NULL AND "+col+" <> ''").
		Order(col).
		Pluck(col, &values).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return values, nil
}

func (c *compoundImpl) NextSerialNumber(ctx context.Context) (int64, error) {
	return c.nextValue(ctx, &model.Compound{}, "serial_number")
}

// NextTableNumber reads the id sequence, which never rewinds after blocks are
// deleted, so MAX(id)+1 would under-report.
func (c *compoundImpl) NextTableNumber(ctx context.Context) (int64, error) {
	tx := c.DBWithContext(ctx)
	table := (&model.NMRBlock{}).TableName()
	var stmt string
	switch tx.Dialector.Name() {
	case "postgres":
		stmt = "SELECT COALESCE(pg_sequence_last_value(pg_get_serial_sequence(?, 'id')), 0) + 1"
	case "sqlite":
		stmt = "SELECT COALESCE((SELECT seq FROM sqlite_sequence WHERE name = ?), 0) + 1"
	default:
		return c.nextValue(ctx, &model.NMRBlock{}, "id")
	}
	var next int64
	if err := tx.Raw(stmt, table).Scan(&next).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return next, nil
}

func (c *compoundImpl) nextValue(ctx context.Context, table any, col string) (int64, error) {
	var next int64
	if err := c.DBWithContext(ctx).Model(table).
		Select("COALESCE(MAX(" + col + "), 0) + 1").
		Scan(&next).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return next, nil
}
