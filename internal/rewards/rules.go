// Package rewards implements the stats-and-rewards aggregation rules:
// streak updates, counter increments, badge evaluation and level
// recompute. The functions here are pure; the transactional apply loop
// lives in internal/core.
package rewards

import (
	"fmt"

	"cleancity/pkg/models"
)

// StatField names a UserStats field a badge rule may reference. The set
// is closed; rules are plain {field, op, threshold} tuples and are never
// evaluated through runtime expressions.
type StatField string

const (
	FieldItemsScanned  StatField = "items_scanned"
	FieldItemsRecycled StatField = "items_recycled"
	FieldCompostItems  StatField = "compost_items"
	FieldEwasteItems   StatField = "ewaste_items"
	FieldTotalPoints   StatField = "total_points"
	FieldCO2SavedKg    StatField = "co2_saved_kg"
	FieldDailyStreak   StatField = "daily_streak"
)

// Op is a rule comparator.
type Op string

const (
	OpGTE Op = ">="
	OpGT  Op = ">"
	OpEQ  Op = "=="
)

// BadgeRule is an immutable one-time-grantable achievement definition.
type BadgeRule struct {
	Name        string
	Field       StatField
	Op          Op
	Threshold   float64
	Bonus       int
	Description string
}

// Evaluate applies the rule's predicate to the given statistics. An
// unknown field or comparator is a configuration error: the caller logs
// it and treats the rule as never satisfied.
func (r BadgeRule) Evaluate(stats *models.UserStats) (bool, error) {
	value, err := fieldValue(r.Field, stats)
	if err != nil {
		return false, err
	}

	switch r.Op {
	case OpGTE:
		return value >= r.Threshold, nil
	case OpGT:
		return value > r.Threshold, nil
	case OpEQ:
		return value == r.Threshold, nil
	default:
		return false, fmt.Errorf("%w: badge %q has unknown comparator %q", models.ErrInvalidRule, r.Name, r.Op)
	}
}

func fieldValue(f StatField, stats *models.UserStats) (float64, error) {
	switch f {
	case FieldItemsScanned:
		return float64(stats.ItemsScanned), nil
	case FieldItemsRecycled:
		return float64(stats.ItemsRecycled), nil
	case FieldCompostItems:
		return float64(stats.CompostItems), nil
	case FieldEwasteItems:
		return float64(stats.EwasteItems), nil
	case FieldTotalPoints:
		return float64(stats.TotalPoints), nil
	case FieldCO2SavedKg:
		return stats.CO2SavedKg, nil
	case FieldDailyStreak:
		return float64(stats.DailyStreak), nil
	default:
		return 0, fmt.Errorf("%w: unknown stats field %q", models.ErrInvalidRule, f)
	}
}

// DefaultBadgeRules is the production badge set, in grant-priority order.
// When several rules become true on the same event, badges append in this
// order.
var DefaultBadgeRules = []BadgeRule{
	{Name: "Eco Warrior", Field: FieldItemsScanned, Op: OpGTE, Threshold: 10, Bonus: 50, Description: "Scan 10 items"},
	{Name: "Plastic Reducer", Field: FieldItemsRecycled, Op: OpGTE, Threshold: 5, Bonus: 30, Description: "Recycle 5 items"},
	{Name: "Compost Champion", Field: FieldCompostItems, Op: OpGTE, Threshold: 5, Bonus: 30, Description: "Compost 5 items"},
	{Name: "E-Waste Expert", Field: FieldEwasteItems, Op: OpGTE, Threshold: 3, Bonus: 40, Description: "Drop off 3 electronic items"},
	{Name: "Carbon Saver", Field: FieldCO2SavedKg, Op: OpGTE, Threshold: 10, Bonus: 60, Description: "Save 10 kg of CO2"},
	{Name: "Week Streak", Field: FieldDailyStreak, Op: OpGTE, Threshold: 7, Bonus: 70, Description: "Scan every day for a week"},
	{Name: "Point Collector", Field: FieldTotalPoints, Op: OpGTE, Threshold: 500, Bonus: 100, Description: "Collect 500 points"},
}
