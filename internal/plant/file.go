package plant

import (
	"fmt"
	"os"
	"strings"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// File is a YAML plant description: everything the scheduler needs to know
// about a shop, importable in one step.
type File struct {
	Machines []models.Machine       `yaml:"machines" validate:"dive"`
	Products []models.Product       `yaml:"products" validate:"dive"`
	Shifts   []models.Shift         `yaml:"shifts" validate:"dive"`
	Holidays []models.Holiday       `yaml:"holidays" validate:"dive"`
	Orders   []models.PurchaseOrder `yaml:"orders" validate:"dive"`
}

// ImportResult counts the rows written by Import.
type ImportResult struct {
	Machines int `json:"machines"`
	Products int `json:"products"`
	Steps    int `json:"steps"`
	Shifts   int `json:"shifts"`
	Holidays int `json:"holidays"`
	Orders   int `json:"orders"`
}

// LoadPlantFile reads and validates a plant description from path.
func LoadPlantFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plant: read %s: %w", path, err)
	}
	return ParsePlantFile(data)
}

// ParsePlantFile unmarshals and validates a plant description.
func ParsePlantFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("plant: parse: %w", err)
	}
	f.applyDefaults()
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	for i := range f.Machines {
		if f.Machines[i].Status == "" {
			f.Machines[i].Status = models.MachineActive
		}
		if f.Machines[i].Efficiency == 0 {
			f.Machines[i].Efficiency = 100
		}
	}
	for i := range f.Products {
		if f.Products[i].Priority == "" {
			f.Products[i].Priority = models.PriorityMedium
		}
	}
	for i := range f.Orders {
		if f.Orders[i].Priority == "" {
			f.Orders[i].Priority = models.PriorityMedium
		}
		if f.Orders[i].Status == "" {
			f.Orders[i].Status = models.OrderPending
		}
	}
}

// validate runs tag validation and the cross-reference checks that span
// records: unique IDs, known machines, known products, date ordering.
func (f *File) validate() error {
	var errs []string
	if err := Validator().Struct(f); err != nil {
		errs = append(errs, describe(err)...)
	}

	machines := make(map[string]bool, len(f.Machines))
	for _, m := range f.Machines {
		if machines[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate machine id %q", m.ID))
		}
		machines[m.ID] = true
	}
	products := make(map[string]bool, len(f.Products))
	for _, p := range f.Products {
		if products[p.ID] {
			errs = append(errs, fmt.Sprintf("duplicate product id %q", p.ID))
		}
		products[p.ID] = true
		steps := make(map[string]bool, len(p.ProcessFlow))
		for _, s := range p.ProcessFlow {
			key := fmt.Sprintf("%s/%d", s.MachineID, s.Sequence)
			if steps[key] {
				errs = append(errs, fmt.Sprintf("product %q has two steps on machine %q at sequence %d", p.ID, s.MachineID, s.Sequence))
			}
			steps[key] = true
			if s.MachineID != "" && !machines[s.MachineID] {
				errs = append(errs, fmt.Sprintf("product %q step %d references unknown machine %q", p.ID, s.Sequence, s.MachineID))
			}
			if s.NextProcessDelay == models.DelayCustomHours && s.CustomDelayHours <= 0 {
				errs = append(errs, fmt.Sprintf("product %q step %d: custom delay needs custom_delay_hours", p.ID, s.Sequence))
			}
		}
	}
	shifts := make(map[string]bool, len(f.Shifts))
	for _, s := range f.Shifts {
		if shifts[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate shift id %q", s.ID))
		}
		shifts[s.ID] = true
	}
	orders := make(map[string]bool, len(f.Orders))
	for _, o := range f.Orders {
		if orders[o.ID] {
			errs = append(errs, fmt.Sprintf("duplicate order id %q", o.ID))
		}
		orders[o.ID] = true
		if !products[o.ProductID] {
			errs = append(errs, fmt.Sprintf("order %q references unknown product %q", o.ID, o.ProductID))
		}
		if o.PODate != "" && o.DeliveryDate != "" && o.DeliveryDate <= o.PODate {
			errs = append(errs, fmt.Sprintf("order %q: delivery_date must be after po_date", o.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("plant: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Import upserts the plant description in one transaction. Products have
// their process flow replaced; existing orders keep their lifecycle status.
func Import(db *gorm.DB, f *File) (*ImportResult, error) {
	res := &ImportResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range f.Machines {
			m := f.Machines[i]
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
				return fmt.Errorf("plant: import machine %q: %w", m.ID, err)
			}
			res.Machines++
		}

		for i := range f.Products {
			p := f.Products[i]
			steps := p.ProcessFlow
			p.ProcessFlow = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&p).Error; err != nil {
				return fmt.Errorf("plant: import product %q: %w", p.ID, err)
			}
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProcessStep{}).Error; err != nil {
				return fmt.Errorf("plant: clear process flow of %q: %w", p.ID, err)
			}
			for _, s := range steps {
				s.ID = 0
				s.ProductID = p.ID
				if err := tx.Create(&s).Error; err != nil {
					return fmt.Errorf("plant: import step %d of %q: %w", s.Sequence, p.ID, err)
				}
				res.Steps++
			}
			res.Products++
		}

		for i := range f.Shifts {
			s := f.Shifts[i]
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error; err != nil {
				return fmt.Errorf("plant: import shift %q: %w", s.ID, err)
			}
			res.Shifts++
		}

		for i := range f.Holidays {
			h := f.Holidays[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&h).Error; err != nil {
				return fmt.Errorf("plant: import holiday %s: %w", h.Date, err)
			}
			res.Holidays++
		}

		for i := range f.Orders {
			o := f.Orders[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"product_id", "customer", "quantity", "po_date", "delivery_date", "priority", "notes", "updated_at",
				}),
			}).Create(&o).Error; err != nil {
				return fmt.Errorf("plant: import order %q: %w", o.ID, err)
			}
			res.Orders++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
