// Package pointsrule holds the static incident type table: every type belongs to
// exactly one category and carries a fixed point value.
package pointsrule

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAttendance   Category = "Attendance"
	CategoryAppearance   Category = "Appearance"
	CategoryCashiering   Category = "Cashiering"
	CategoryPerformance  Category = "Performance"
	CategoryProjectSheet Category = "Project Sheet"
)

// DefaultCategory dan DefaultPoints dipakai untuk tipe yang tidak dikenal.
const DefaultCategory = CategoryPerformance

var DefaultPoints = decimal.NewFromInt(1)

type IncidentType string

type rule struct {
	category Category
	points   decimal.Decimal
}

var categoryOrder = []Category{
	CategoryAttendance,
	CategoryAppearance,
	CategoryCashiering,
	CategoryPerformance,
	CategoryProjectSheet,
}

var rules = map[IncidentType]rule{
	// Attendance
	"Absence":          {CategoryAttendance, decimal.NewFromInt(1)},
	"No Call No Show":  {CategoryAttendance, decimal.NewFromInt(5)},
	"Tardiness":        {CategoryAttendance, decimal.RequireFromString("0.5")},
	"Time Clock Error": {CategoryAttendance, decimal.RequireFromString("0.5")},
	"Time Theft":       {CategoryAttendance, decimal.NewFromInt(5)},

	// Appearance
	"Hygiene":      {CategoryAppearance, decimal.NewFromInt(1)},
	"Presentation": {CategoryAppearance, decimal.NewFromInt(1)},

	// Cashiering
	"Computer Efficiency":                 {CategoryCashiering, decimal.NewFromInt(1)},
	"Drawer Discrepancy (under $10)":      {CategoryCashiering, decimal.NewFromInt(5)},
	"Drawer Discrepancy (over $10)":       {CategoryCashiering, decimal.NewFromInt(5)},
	"Drawer Discrepancy (over $99)":       {CategoryCashiering, decimal.NewFromInt(20)},
	"Employee Discount":                   {CategoryCashiering, decimal.NewFromInt(2)},
	"Transaction Discrepancy (under $10)": {CategoryCashiering, decimal.NewFromInt(1)},
	"Transaction Discrepancy (over $10)":  {CategoryCashiering, decimal.NewFromInt(2)},

	// Performance
	"Communication":               {CategoryPerformance, decimal.NewFromInt(1)},
	"Customer":                    {CategoryPerformance, decimal.NewFromInt(1)},
	"Customer Complaint/Review":   {CategoryPerformance, decimal.NewFromInt(10)},
	"Employee Knowledge":          {CategoryPerformance, decimal.NewFromInt(1)},
	"Loss Prevention":             {CategoryPerformance, decimal.NewFromInt(10)},
	"Phone/Computer Personal Use": {CategoryPerformance, decimal.NewFromInt(2)},
	"Team Member":                 {CategoryPerformance, decimal.NewFromInt(2)},
	"Work Efficiency":             {CategoryPerformance, decimal.NewFromInt(1)},

	// Project Sheet
	"Closing Procedures (Cleaning)":   {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Daily Sheet":                     {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Go Backs":                        {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Occurrency Log":                  {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Opening Procedures (Doors/Gate)": {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Order Processing/Receiving":      {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Project Efficiency":              {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Project Sheet":                   {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Repairs":                         {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Sales Floor":                     {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Sheets Log":                      {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Stockroom":                       {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Synology Log":                    {CategoryProjectSheet, decimal.NewFromInt(1)},
	"Trading Cards":                   {CategoryProjectSheet, decimal.NewFromInt(1)},
}

// PointsFor returns the point value of t, or DefaultPoints when t is unknown.
func PointsFor(t IncidentType) decimal.Decimal {
	if r, ok := rules[t]; ok {
		return r.points
	}
	return DefaultPoints
}

// CategoryFor returns the category of t, or DefaultCategory when t is unknown.
func CategoryFor(t IncidentType) Category {
	if r, ok := rules[t]; ok {
		return r.category
	}
	return DefaultCategory
}

func IsKnownType(t IncidentType) bool {
	_, ok := rules[t]
	return ok
}

func IsKnownCategory(c Category) bool {
	for _, known := range categoryOrder {
		if known == c {
			return true
		}
	}
	return false
}

func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// TypesByCategory groups the known types by category, sorted by name.
func TypesByCategory() map[Category][]IncidentType {
	out := make(map[Category][]IncidentType, len(categoryOrder))
	for t, r := range rules {
		out[r.category] = append(out[r.category], t)
	}
	for c := range out {
		types := out[c]
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	}
	return out
}

// Types returns every known type ordered by category then name.
func Types() []IncidentType {
	grouped := TypesByCategory()
	out := make([]IncidentType, 0, len(rules))
	for _, c := range categoryOrder {
		out = append(out, grouped[c]...)
	}
	return out
}
