package db

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every seeded consultant.
const SeedPassword = "ordens123"

// SeedFixtures populates an empty database with demonstration data:
// one supervisor, two consultants, reference rows, and open, stale and
// billed orders. Dates are relative to now so the stale report has content.
func SeedFixtures(database *sql.DB, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed password: %w", err)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	consultants := []struct {
		id                int64
		name, email, role string
	}{
		{1, "Marta Ribeiro", "marta@oficina.com.br", "supervisor"},
		{2, "Carlos Souza", "carlos@oficina.com.br", "consultor"},
		{3, "Paula Lima", "paula@oficina.com.br", "consultor"},
	}
	for _, c := range consultants {
		if _, err := tx.Exec(
			"INSERT INTO consultants (id, name, email, password_hash, role) VALUES (?, ?, ?, ?, ?)",
			c.id, c.name, c.email, string(hash), c.role,
		); err != nil {
			return fmt.Errorf("seed consultants: %w", err)
		}
	}

	for i, d := range []string{"Trator", "Colheitadeira", "Pulverizador"} {
		if _, err := tx.Exec("INSERT INTO machine_types (id, description) VALUES (?, ?)", i+1, d); err != nil {
			return fmt.Errorf("seed machine types: %w", err)
		}
	}

	for i, d := range []string{"Aberto", "Aguardando Peças", "Em Execução", "Faturada"} {
		if _, err := tx.Exec("INSERT INTO statuses (id, description) VALUES (?, ?)", i+1, d); err != nil {
			return fmt.Errorf("seed statuses: %w", err)
		}
	}

	models := []struct {
		id            int64
		name, chassis string
		typeID        int64
	}{
		{1, "T7.245", "CH-7245-001", 1},
		{2, "TC5.30", "CH-530-014", 2},
		{3, "Defensor 2500", "CH-2500-003", 3},
		{4, "T6.130", "CH-6130-022", 1},
	}
	for _, m := range models {
		if _, err := tx.Exec(
			"INSERT INTO models (id, name, chassis_id, machine_type_id) VALUES (?, ?, ?, ?)",
			m.id, m.name, m.chassis, m.typeID,
		); err != nil {
			return fmt.Errorf("seed models: %w", err)
		}
	}

	clients := []struct {
		id                 int64
		name, taxID, phone string
	}{
		{1, "Fazenda Boa Vista", "12.345.678/0001-90", "(34) 3333-1000"},
		{2, "João Pereira", "123.456.789-00", "(34) 99999-2000"},
		{3, "Sítio Santa Luzia", "TEMP_CPF_SÍTIO_SANTA_LUZIA_20240105091500000000", ""},
	}
	for _, c := range clients {
		if _, err := tx.Exec(
			"INSERT INTO clients (id, name, tax_id, phone) VALUES (?, ?, ?, NULLIF(?, ''))",
			c.id, c.name, c.taxID, c.phone,
		); err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
	}

	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }
	orders := []struct {
		number, orderType                        string
		client, model, consultant, status        int64
		description, opened, billed, factoryPaid string
		amount                                   any
	}{
		{"OS-1001", "Garantia", 1, 1, 2, 1, "Revisão de 500 horas", day(-5), "", "", nil},
		{"OS-1002", "Garantia", 2, 2, 2, 2, "Troca de correia do rotor", day(-45), "", "", 1850.0},
		{"OS-1003", "Cliente", 3, 3, 3, 3, "Reparo na barra de pulverização", day(-12), "", "", 3200.5},
		{"OS-0990", "Garantia", 1, 4, 3, 4, "Substituição da bomba hidráulica", day(-90), day(-60), day(-30), 7420.0},
		{"OS-0991", "Cliente", 2, 1, 2, 4, "Troca de embreagem", day(-400), day(-380), "", 5100.0},
	}
	for _, o := range orders {
		if _, err := tx.Exec(`
			INSERT INTO service_orders (order_number, order_type, client_id, model_id, consultant_id, status_id,
				service_description, opened_date, billed_date, factory_payment_date, net_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?)`,
			o.number, o.orderType, o.client, o.model, o.consultant, o.status,
			o.description, o.opened, o.billed, o.factoryPaid, o.amount,
		); err != nil {
			return fmt.Errorf("seed service orders: %w", err)
		}
	}

	return tx.Commit()
}
