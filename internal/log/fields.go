package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldKey         = "key"
	FieldCollection  = "collection"
	FieldCount       = "count"
	FieldID          = "id"
	FieldType        = "type"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldLimitCents  = "limit_cents"
	FieldPeriod      = "period"
	FieldBalance     = "balance_cents"
	FieldIncome      = "income_cents"
	FieldExpenses    = "expenses_cents"
	FieldPercentage  = "percentage"
	FieldState       = "state"
	FieldDuration    = "duration_ms"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentService     = "service"
	ComponentPersistence = "persistence"
	ComponentStorage     = "storage"
	ComponentSeeder      = "seeder"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentCache       = "cache"
	ComponentBackend     = "backend"
	ComponentMetrics     = "metrics"
)

// Operations defines standard operation names
const (
	OpRead     = "read"
	OpWrite    = "write"
	OpAdd      = "add"
	OpDelete   = "delete"
	OpLoad     = "load"
	OpRefresh  = "refresh"
	OpSeed     = "seed"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeDecode        = "decode_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotReady      = "not_ready_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(t string) LogFields {
	f[FieldErrorType] = t
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKey adds the storage key and the collection it holds.
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	f[FieldCollection] = key
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id, typ, category string, amountCents int64) LogFields {
	f[FieldID] = id
	f[FieldType] = typ
	f[FieldCategory] = category
	f[FieldAmountCents] = amountCents
	return f
}

// WithBudget adds budget-related fields
func (f LogFields) WithBudget(id, category, period string, limitCents int64) LogFields {
	f[FieldID] = id
	f[FieldCategory] = category
	f[FieldPeriod] = period
	f[FieldLimitCents] = limitCents
	return f
}

// WithTotals adds summary totals in cents.
func (f LogFields) WithTotals(income, expenses, balance int64) LogFields {
	f[FieldIncome] = income
	f[FieldExpenses] = expenses
	f[FieldBalance] = balance
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key so output
// is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
