package model

import (
	"gorm.io/datatypes"
)

type Compound struct {
	BaseModel
	SerialNumber      int64          `gorm:"not null;uniqueIndex" json:"serial_number"`
	Name              string         `gorm:"type:text;not null" json:"name"`
	AltNames          string         `gorm:"type:text" json:"alt_names"`
	Category          string         `gorm:"type:varchar(255);index" json:"category"`
	Status            string         `gorm:"type:varchar(64);index" json:"status"`
	StatePhase        string         `gorm:"type:varchar(255);index" json:"state_phase"`
	Color             string         `gorm:"type:varchar(255);index" json:"color"`
	Origin            string         `gorm:"type:text" json:"origin"`
	Author            string         `gorm:"type:text" json:"author"`
	MeltingPoint      string         `gorm:"type:varchar(255)" json:"melting_point"`
	OpticalRotation   string         `gorm:"type:varchar(255)" json:"optical_rotation"`
	MolecularWeight   string         `gorm:"type:varchar(255)" json:"molecular_weight"`
	AbsoluteConfig    bool           `gorm:"not null;default:false" json:"absolute_config"`
	StructuralFormula string         `gorm:"type:text" json:"structural_formula"`
	UVIndicator       datatypes.JSON `json:"uv_indicator"`
	MolecularFormula  string         `gorm:"type:varchar(255)" json:"molecular_formula"`
	StructureImage    string         `gorm:"type:text" json:"structure_image"`
	Smiles            string         `gorm:"type:text" json:"smiles"`
	Spectra           datatypes.JSON `json:"spectra"`

	Blocks []*NMRBlock `gorm:"foreignKey:CompoundID;constraint:OnDelete:CASCADE" json:"-"`
}

func (*Compound) TableName() string {
	return "compound"
}

// NMRBlock.ID doubles as the table number shown to users.
type NMRBlock struct {
	BaseModel
	CompoundID int64  `gorm:"not null;index" json:"compound_id"`
	Solvent    string `gorm:"type:varchar(255)" json:"solvent"`
	Freq13C    string `gorm:"column:freq_13c;type:varchar(255)" json:"freq_13c"`
	Freq1H     string `gorm:"column:freq_1h;type:varchar(255)" json:"freq_1h"`
	Notes      string `gorm:"type:text" json:"notes"`
	References string `gorm:"column:literature_refs;type:text" json:"references"`

	Signals []*NMRSignal `gorm:"foreignKey:BlockID;constraint:OnDelete:CASCADE" json:"-"`
}

func (*NMRBlock) TableName() string {
	return "nmr_block"
}

type NMRSignal struct {
	BaseModel
	BlockID     int64  `gorm:"not null;index" json:"block_id"`
	Position    string `gorm:"type:varchar(255)" json:"position"`
	CarbonShift string `gorm:"type:text" json:"carbon_shift"`
	ProtonShift string `gorm:"type:text" json:"proton_shift"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

func (*NMRSignal) TableName() string {
	return "nmr_signal"
}
