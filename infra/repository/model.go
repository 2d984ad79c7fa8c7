package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"gorm.io/gorm"
)

// Transaction represents a persisted transaction record.
type Transaction struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type                 string          `gorm:"type:varchar(16);not null"`
	Amount               int64           `gorm:"not null"` // minor units
	Status               string          `gorm:"type:varchar(16);not null;index"`
	RelatedTransactionID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns the record ID.
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionStatusHistory is one row of the append-only status log.
type TransactionStatusHistory struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        string    `gorm:"type:varchar(16);not null"`
	ChangedAt     time.Time `gorm:"not null"`
}

func (TransactionStatusHistory) TableName() string {
	return "transaction_status_history"
}

// Customer represents a customer row, including the balance.
type Customer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Surname     string          `gorm:"type:varchar(100);not null"`
	BirthDate   time.Time       `gorm:"type:date"`
	PhoneNumber string          `gorm:"type:varchar(32);uniqueIndex"`
	Balance     int64           `gorm:"not null;default:0"` // minor units
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns the record ID.
func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Models lists every table owned by the module, in migration order.
func Models() []any {
	return []any{&Transaction{}, &TransactionStatusHistory{}, &Customer{}}
}

func mapTransactionToModel(tx *transaction.Transaction) *Transaction {
	return &Transaction{
		ID:                   tx.ID,
		CustomerID:           tx.CustomerID,
		Type:                 string(tx.Type),
		Amount:               domain.ToMinorUnits(tx.Amount),
		Status:               string(tx.Status),
		RelatedTransactionID: tx.RelatedTransactionID,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

func mapModelToTransaction(m *Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:                   m.ID,
		CustomerID:           m.CustomerID,
		Type:                 transaction.Type(m.Type),
		Amount:               domain.FromMinorUnits(m.Amount),
		Status:               transaction.Status(m.Status),
		RelatedTransactionID: m.RelatedTransactionID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func mapCustomerToModel(c *customer.Customer) *Customer {
	return &Customer{
		ID:          c.ID,
		Name:        c.Name,
		Surname:     c.Surname,
		BirthDate:   c.BirthDate,
		PhoneNumber: c.PhoneNumber,
		Balance:     domain.ToMinorUnits(c.Balance),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func mapModelToCustomer(m *Customer) *customer.Customer {
	return &customer.Customer{
		ID:          m.ID,
		Name:        m.Name,
		Surname:     m.Surname,
		BirthDate:   m.BirthDate,
		PhoneNumber: m.PhoneNumber,
		Balance:     domain.FromMinorUnits(m.Balance),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
