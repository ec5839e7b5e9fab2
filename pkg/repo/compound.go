package repo

import (
	"context"
	"time"

	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/repo/model"
)

// DistinctColumn names a filterable tag column.
type DistinctColumn string

const (
	DistinctCategory   DistinctColumn = "category"
	DistinctStatePhase DistinctColumn = "state_phase"
	DistinctColor      DistinctColumn = "color"
	DistinctSolvent    DistinctColumn = "solvent"
)

// CompoundQuery filters are ANDed across categories and ORed within one.
type CompoundQuery struct {
	SearchTerm  string
	Categories  []string
	Statuses    []string
	StatePhases []string
	Colors      []string
	Offset      int
	Limit       int
}

// CompoundBlockRow is one row of compound LEFT JOIN nmr_block. Block columns are
// nil for a compound without blocks.
type CompoundBlockRow struct {
	model.Compound
	BlockID         *int64        `gorm:"column:block_id"`
	BlockUUID       uuid.NullUUID `gorm:"column:block_uuid"`
	BlockSolvent    *string       `gorm:"column:block_solvent"`
	BlockFreq13C    *string       `gorm:"column:block_freq_13c"`
	BlockFreq1H     *string       `gorm:"column:block_freq_1h"`
	BlockNotes      *string       `gorm:"column:block_notes"`
	BlockReferences *string       `gorm:"column:block_references"`
}

type CompoundRepo interface {
	Transactor
	IDOrUUIDTranslate

	// ListCompoundIDs returns one page of ids, newest first, and the total match count.
	ListCompoundIDs(ctx context.Context, q *CompoundQuery) ([]int64, int64, error)
	GetCompoundRows(ctx context.Context, ids []int64) ([]*CompoundBlockRow, error)
	GetSignals(ctx context.Context, blockIDs []int64) ([]*model.NMRSignal, error)

	CreateCompound(ctx context.Context, c *model.Compound) error
	// UpdateCompound overwrites every column of c's row if its updated_at still equals
	// stored. It returns code.UpdateConflictErr when the row changed in between.
	UpdateCompound(ctx context.Context, c *model.Compound, stored time.Time) error
	DeleteCompound(ctx context.Context, id int64) (bool, error)

	DeleteBlocks(ctx context.Context, compoundID int64) error
	InsertBlocks(ctx context.Context, compoundID int64, blocks []*model.NMRBlock) error

	DistinctValues(ctx context.Context, column DistinctColumn) ([]string, error)
	NextSerialNumber(ctx context.Context) (int64, error)
	NextTableNumber(ctx context.Context) (int64, error)
}
