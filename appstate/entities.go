package appstate

import (
	"time"

	"planner-core/assistant"
)

type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required,min=3,max=100"`
	Category  string `json:"category" validate:"required,max=40"`
	Completed bool   `json:"completed"`
}

type GuestStatus string

const (
	GuestPending   GuestStatus = "Pendente"
	GuestConfirmed GuestStatus = "Confirmado"
	GuestDeclined  GuestStatus = "Recusado"
)

type Guest struct {
	ID       string      `json:"id"`
	Name     string      `json:"name" validate:"required,min=2,max=50"`
	Status   GuestStatus `json:"status" validate:"oneof=Pendente Confirmado Recusado"`
	Notified bool        `json:"notified"`
}

type MessageRole string

const (
	MessageUser      MessageRole = "user"
	MessageAssistant MessageRole = "assistant"
)

type Message struct {
	ID        string             `json:"id"`
	Role      MessageRole        `json:"role"`
	Content   string             `json:"content"`
	Image     string             `json:"image,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Sources   []assistant.Source `json:"sources,omitempty"`
}

type AssetType string

const (
	AssetImage AssetType = "image"
	AssetVideo AssetType = "video"
)

type GeneratedAsset struct {
	ID          string                `json:"id"`
	Type        AssetType             `json:"type"`
	URL         string                `json:"url"`
	Prompt      string                `json:"prompt"`
	Timestamp   time.Time             `json:"timestamp"`
	AspectRatio assistant.AspectRatio `json:"aspectRatio,omitempty"`
}

type InvoiceStatus string

const (
	InvoicePaid     InvoiceStatus = "Pago"
	InvoicePending  InvoiceStatus = "Pendente"
	InvoiceCanceled InvoiceStatus = "Cancelado"
)

type Invoice struct {
	ID       string        `json:"id" yaml:"id"`
	UserID   string        `json:"userId" yaml:"userId" validate:"required"`
	PlanName string        `json:"planName" yaml:"planName"`
	Amount   float64       `json:"amount" yaml:"amount" validate:"gte=0"`
	Status   InvoiceStatus `json:"status" yaml:"status" validate:"oneof=Pago Pendente Cancelado"`
	Method   string        `json:"method,omitempty" yaml:"method"`
	Date     time.Time     `json:"date" yaml:"date"`
}

// ClientRecord é um contato comercial mantido por um assessor (ou pelo administrador).
type ClientRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=2,max=80"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes     string    `json:"notes,omitempty" validate:"max=500"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Portfolio resume as faturas dos casais gerenciáveis pela identidade ativa.
type Portfolio struct {
	MonthlyRevenue   float64
	AnnualRevenue    float64
	PendingValue     float64
	CanceledInvoices int
	Clients          int
	// Quarters é a receita paga por trimestre do ano corrente.
	Quarters [4]float64
}
