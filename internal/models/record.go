package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SleepQuality is the recorded quality of a night's sleep.
type SleepQuality string

const (
	SleepTerrible  SleepQuality = "terrible"
	SleepPoor      SleepQuality = "poor"
	SleepFair      SleepQuality = "fair"
	SleepGood      SleepQuality = "good"
	SleepExcellent SleepQuality = "excellent"
)

// SleepData is the optional sleep section of a daily record.
type SleepData struct {
	Quality  SleepQuality `json:"quality,omitempty"`
	Bedtime  string       `json:"bedtime,omitempty"`
	WakeTime string       `json:"wake_time,omitempty"`
	Notes    string       `json:"notes,omitempty"`
}

// MoodData captures the child's mood per day period. Any subset may be empty.
type MoodData struct {
	Morning   string `json:"morning,omitempty"`
	Afternoon string `json:"afternoon,omitempty"`
	Evening   string `json:"evening,omitempty"`
}

// MealEntry is one logged meal.
type MealEntry struct {
	Quality string `json:"quality"`
	Notes   string `json:"notes,omitempty"`
}

// NutritionData maps meal-slot names (breakfast, lunch, ...) to entries.
type NutritionData struct {
	Meals map[string]MealEntry `json:"meals,omitempty"`
}

// MedicationEntry is one scheduled medication dose.
type MedicationEntry struct {
	Name  string `json:"name,omitempty"`
	Time  string `json:"time,omitempty"`
	Taken bool   `json:"taken"`
}

// MedicationData lists the day's scheduled medications in order.
type MedicationData struct {
	Medications []MedicationEntry `json:"medications,omitempty"`
}

// CrisisPeriod describes one day period's crisis observation.
type CrisisPeriod struct {
	Occurred  bool    `json:"occurred"`
	Intensity float64 `json:"intensity,omitempty"`
	Trigger   string  `json:"trigger,omitempty"`
}

// CrisisData holds per-period crisis observations; absent periods are nil.
type CrisisData struct {
	Morning   *CrisisPeriod `json:"morning,omitempty"`
	Afternoon *CrisisPeriod `json:"afternoon,omitempty"`
	Evening   *CrisisPeriod `json:"evening,omitempty"`
}

// ActivityEntry is one activity the child took part in.
type ActivityEntry struct {
	Name            string `json:"name,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// ActivityPeriod lists activities for one day period. Participation means a
// non-empty activity list.
type ActivityPeriod struct {
	Activities []ActivityEntry `json:"activities,omitempty"`
}

// ActivityData holds per-period activity logs; absent periods are nil.
type ActivityData struct {
	Morning   *ActivityPeriod `json:"morning,omitempty"`
	Afternoon *ActivityPeriod `json:"afternoon,omitempty"`
	Evening   *ActivityPeriod `json:"evening,omitempty"`
}

// ExtraSection carries free-form JSONB sections (hyperfocus, incidents) that
// are stored on the record but not used by scoring.
type ExtraSection map[string]interface{}

// DailyRecord is one child's behavioral log for one calendar date. The table
// is owned by the NeuroBud client backend; this service only reads it.
// At most one row exists per (child_id, record_date).
type DailyRecord struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"user_id"`
	ChildID    string          `db:"child_id" json:"child_id"`
	RecordDate time.Time       `db:"record_date" json:"record_date"`
	Sleep      *SleepData      `db:"sleep_data" json:"sleep_data,omitempty"`
	Mood       *MoodData       `db:"mood_data" json:"mood_data,omitempty"`
	Nutrition  *NutritionData  `db:"nutrition_data" json:"nutrition_data,omitempty"`
	Medication *MedicationData `db:"medication_data" json:"medication_data,omitempty"`
	Crisis     *CrisisData     `db:"crisis_data" json:"crisis_data,omitempty"`
	Activity   *ActivityData   `db:"activity_data" json:"activity_data,omitempty"`
	Hyperfocus ExtraSection    `db:"hyperfocus_data" json:"hyperfocus_data,omitempty"`
	Incidents  ExtraSection    `db:"incident_data" json:"incident_data,omitempty"`
	ExtraNotes *string         `db:"extra_notes" json:"extra_notes,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

func scanJSON(value interface{}, dest interface{}, label string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, label)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", label, err)
	}
	return nil
}

func valueJSON(src interface{}, label string) (driver.Value, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", label, err)
	}
	return data, nil
}

// Value marshals the section to JSON for persistence.
func (d SleepData) Value() (driver.Value, error) { return valueJSON(d, "sleep_data") }

// Scan unmarshals a JSONB payload into the section.
func (d *SleepData) Scan(value interface{}) error { return scanJSON(value, d, "sleep_data") }

func (d MoodData) Value() (driver.Value, error)  { return valueJSON(d, "mood_data") }
func (d *MoodData) Scan(value interface{}) error { return scanJSON(value, d, "mood_data") }

func (d NutritionData) Value() (driver.Value, error)  { return valueJSON(d, "nutrition_data") }
func (d *NutritionData) Scan(value interface{}) error { return scanJSON(value, d, "nutrition_data") }

func (d MedicationData) Value() (driver.Value, error)  { return valueJSON(d, "medication_data") }
func (d *MedicationData) Scan(value interface{}) error { return scanJSON(value, d, "medication_data") }

func (d CrisisData) Value() (driver.Value, error)  { return valueJSON(d, "crisis_data") }
func (d *CrisisData) Scan(value interface{}) error { return scanJSON(value, d, "crisis_data") }

func (d ActivityData) Value() (driver.Value, error)  { return valueJSON(d, "activity_data") }
func (d *ActivityData) Scan(value interface{}) error { return scanJSON(value, d, "activity_data") }

func (d ExtraSection) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return valueJSON(d, "extra section")
}

func (d *ExtraSection) Scan(value interface{}) error { return scanJSON(value, d, "extra section") }
