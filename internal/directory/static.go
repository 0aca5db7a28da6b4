package directory

import (
	"fmt"
	"strings"
)

// Static is the in-process tenant registry used for the pilot: a fixed roster
// defined at deployment time, no self-registration.
type Static struct {
	byID   map[string]Tenant
	byCode map[string]Tenant
	order  []Tenant
}

// NewStatic builds a registry from the given roster. It rejects duplicate ids
// and duplicate access codes so that FindByCode stays unambiguous.
func NewStatic(tenants []Tenant) (*Static, error) {
	d := &Static{
		byID:   make(map[string]Tenant, len(tenants)),
		byCode: make(map[string]Tenant, len(tenants)),
		order:  make([]Tenant, 0, len(tenants)),
	}
	for _, t := range tenants {
		if _, ok := d.byID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate tenant id %q", t.ID)
		}
		code := strings.TrimSpace(t.AccessCode)
		if code == "" {
			return nil, fmt.Errorf("tenant %q has an empty access code", t.ID)
		}
		if _, ok := d.byCode[code]; ok {
			return nil, fmt.Errorf("duplicate access code for tenant %q", t.ID)
		}
		d.byID[t.ID] = t
		d.byCode[code] = t
		d.order = append(d.order, t)
	}
	return d, nil
}

// FindByCode resolves an access code to its tenant. Comparison is exact after
// trimming surrounding whitespace; no partial matches.
func (d *Static) FindByCode(code string) (Tenant, error) {
	t, ok := d.byCode[strings.TrimSpace(code)]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

// FindByID resolves a tenant id.
func (d *Static) FindByID(id string) (Tenant, error) {
	t, ok := d.byID[id]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

// Tenants returns the roster in registration order.
func (d *Static) Tenants() []Tenant {
	out := make([]Tenant, len(d.order))
	copy(out, d.order)
	return out
}

// PilotRoster is the static tenant configuration for the pilot edition.
// Access codes are shared secrets handed to each customer; replace them per
// deployment.
func PilotRoster() []Tenant {
	return []Tenant{
		{ID: "pilot_01", Name: "Ristorante Da Mario", AccessCode: "MARIO24", PlanName: PlanPro, PlanLimit: 300, Location: "Roma Centro", CuisineType: "Cucina Romana Tradizionale"},
		{ID: "pilot_02", Name: "Sushi Zen Experience", AccessCode: "ZEN24", PlanName: PlanPro, PlanLimit: 300, Location: "Milano", CuisineType: "Giapponese Fusion"},
		{ID: "pilot_03", Name: "Osteria del Porto", AccessCode: "PORTO24", PlanName: PlanPro, PlanLimit: 300, Location: "Genova", CuisineType: "Pesce Fresco"},
		{ID: "pilot_04", Name: "Pizzeria Bella Napoli", AccessCode: "PIZZA24", PlanName: PlanBasic, PlanLimit: 100, Location: "Napoli", CuisineType: "Pizza Napoletana"},
		{ID: "pilot_05", Name: "Burger Station", AccessCode: "BURGER24", PlanName: PlanBasic, PlanLimit: 100, Location: "Torino", CuisineType: "Hamburger Gourmet"},
		{ID: "pilot_06", Name: "Trattoria I Nonni", AccessCode: "NONNI24", PlanName: PlanBasic, PlanLimit: 100, Location: "Firenze", CuisineType: "Cucina Toscana"},
		{ID: "pilot_07", Name: "Gelateria Blu", AccessCode: "GELO24", PlanName: PlanBasic, PlanLimit: 100, Location: "Rimini", CuisineType: "Gelato Artigianale"},
		{ID: "pilot_08", Name: "Bar Centrale", AccessCode: "BAR24", PlanName: PlanBasic, PlanLimit: 50, Location: "Bologna", CuisineType: "Caffetteria & Aperitivi"},
		{ID: "pilot_09", Name: "Bistrot 99", AccessCode: "BISTROT24", PlanName: PlanBasic, PlanLimit: 50, Location: "Verona", CuisineType: "Cucina Moderna"},
		{ID: "pilot_10", Name: "Agriturismo Verde", AccessCode: "VERDE24", PlanName: PlanPro, PlanLimit: 150, Location: "Chianti", CuisineType: "Agriturismo"},
		{ID: "demo_internal", Name: "ReiterStube (Demo)", AccessCode: "2424", PlanName: PlanEnterprise, PlanLimit: 999, Location: "Vipiteno", CuisineType: "Cucina Tirolese"},
	}
}
