// Package order contains the pure business logic for service orders: the
// open/billed lifecycle rule, input parsing, and permission guards.
package order

import "strings"

// Order types.
const (
	TypeWarranty = "Garantia"
	TypeClient   = "Cliente"
)

// Reference defaults applied when a description is blank.
const (
	BilledStatus       = "Faturada"
	UnknownStatus      = "Status Desconhecido"
	UnknownMachineType = "Tipo Desconhecido"
	DefaultMachineType = "Trator"
)

// DefaultStaleAfterDays is how long an order may stay open before it is flagged.
const DefaultStaleAfterDays = 30

// Field names an editable column of an open order.
type Field string

const (
	FieldStatus             Field = "status"
	FieldBilledDate         Field = "billed_date"
	FieldFactoryPaymentDate Field = "factory_payment_date"
	FieldServiceDescription Field = "service_description"
	FieldOrderType          Field = "order_type"
	FieldNetAmount          Field = "net_amount"
)

// Snapshot is the last persisted state of an open order's editable fields.
// Dates are ISO strings; "" means NULL.
type Snapshot struct {
	StatusID           int64
	StatusText         string
	BilledDate         string
	FactoryPaymentDate string
	ServiceDescription string
	OrderType          string
	NetAmount          *float64
}

// SupervisorEdit carries the fields only supervisors may change. A blank
// OrderType keeps the current type; NetAmount is applied only when
// SetNetAmount is true, nil clearing it.
type SupervisorEdit struct {
	OrderType    string
	SetNetAmount bool
	NetAmount    *float64
}

// Edit is a parsed edit of an open order. A nil field was not submitted and
// keeps its persisted value; a pointer to "" clears it. Supervisor is nil
// when the supervisor-only fields were not submitted.
type Edit struct {
	StatusText         *string
	BilledDate         *string
	FactoryPaymentDate *string
	ServiceDescription *string
	Supervisor         *SupervisorEdit
}

// Changes lists the fields whose new value differs from the snapshot, with
// the values to persist. Status is carried as text; the caller resolves it
// to a status id.
type Changes struct {
	fields []Field

	StatusText         string
	BilledDate         string
	FactoryPaymentDate string
	ServiceDescription string
	OrderType          string
	NetAmount          *float64
}

// Has reports whether f changed.
func (c Changes) Has(f Field) bool {
	for _, field := range c.fields {
		if field == f {
			return true
		}
	}
	return false
}

// Fields returns the changed fields in evaluation order.
func (c Changes) Fields() []Field {
	return append([]Field(nil), c.fields...)
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.fields) == 0
}

// Diff compares the submitted fields of an edit against the persisted
// snapshot after trimming and treating blank as NULL, and returns only what
// changed. Fields the edit leaves nil are never reported.
func Diff(current Snapshot, edit Edit) Changes {
	var c Changes

	if edit.StatusText != nil {
		if status := normalize(*edit.StatusText); status != normalize(current.StatusText) {
			c.fields = append(c.fields, FieldStatus)
			c.StatusText = status
		}
	}
	if edit.BilledDate != nil && *edit.BilledDate != current.BilledDate {
		c.fields = append(c.fields, FieldBilledDate)
		c.BilledDate = *edit.BilledDate
	}
	if edit.FactoryPaymentDate != nil && *edit.FactoryPaymentDate != current.FactoryPaymentDate {
		c.fields = append(c.fields, FieldFactoryPaymentDate)
		c.FactoryPaymentDate = *edit.FactoryPaymentDate
	}
	if edit.ServiceDescription != nil {
		if desc := normalize(*edit.ServiceDescription); desc != normalize(current.ServiceDescription) {
			c.fields = append(c.fields, FieldServiceDescription)
			c.ServiceDescription = desc
		}
	}

	if sup := edit.Supervisor; sup != nil {
		if orderType := normalize(sup.OrderType); orderType != "" && orderType != current.OrderType {
			c.fields = append(c.fields, FieldOrderType)
			c.OrderType = orderType
		}
		if sup.SetNetAmount && !sameAmount(sup.NetAmount, current.NetAmount) {
			c.fields = append(c.fields, FieldNetAmount)
			c.NetAmount = sup.NetAmount
		}
	}

	return c
}

// FilesAsBilled reports whether edit files the order as billed. The status
// is the submitted text, or the persisted one when the edit leaves it out;
// the billed date must be submitted in this edit.
func FilesAsBilled(current Snapshot, edit Edit) bool {
	if edit.BilledDate == nil {
		return false
	}
	status := current.StatusText
	if edit.StatusText != nil {
		status = *edit.StatusText
	}
	return RequestsBilling(status, *edit.BilledDate)
}

// RequestsBilling reports whether an edit files the order as billed: the
// status text is literally "Faturada" in any letter case and a billed date
// was supplied in the same edit.
func RequestsBilling(statusText, billedDate string) bool {
	return strings.EqualFold(strings.TrimSpace(statusText), BilledStatus) && billedDate != ""
}

// IsOpen reports whether an order with the given billed date is open.
func IsOpen(billedDate string) bool {
	return billedDate == ""
}

// ValidOrderType reports whether t is one of the known order types.
func ValidOrderType(t string) bool {
	return t == TypeWarranty || t == TypeClient
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

func sameAmount(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
