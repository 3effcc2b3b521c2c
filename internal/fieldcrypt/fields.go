package fieldcrypt

// Kind tells the record API how a field's value is serialized around encryption.
type Kind int

const (
	KindString Kind = iota
	// KindJSON values are objects or arrays, stored as encrypted canonical JSON.
	KindJSON
	// KindNumber values are stored as encrypted decimal strings.
	KindNumber
)

// Field is one encrypted attribute of an entity. Name is the record key, Column the
// database column holding the ciphertext.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

type Fields []Field

// Entity declares which fields of a table are encrypted. Identifier and foreign-key
// columns never appear here.
type Entity struct {
	Name   string
	Table  string
	Fields Fields
}

var (
	Employee = Entity{
		Name:  "employee",
		Table: "employees",
		Fields: Fields{
			{Name: "firstName", Column: "first_name"},
			{Name: "lastName", Column: "last_name"},
			{Name: "email", Column: "email"},
			{Name: "phone", Column: "phone"},
			{Name: "contactInfo", Column: "contact_info"},
			{Name: "hourlyRate", Column: "hourly_rate", Kind: KindNumber},
			{Name: "salaryAmount", Column: "salary_amount", Kind: KindNumber},
		},
	}

	Client = Entity{
		Name:  "client",
		Table: "clients",
		Fields: Fields{
			{Name: "clientName", Column: "client_name"},
			{Name: "legalName", Column: "legal_name"},
			{Name: "contactPerson", Column: "contact_person"},
			{Name: "email", Column: "email"},
			{Name: "phone", Column: "phone"},
			{Name: "billingAddress", Column: "billing_address"},
			{Name: "shippingAddress", Column: "shipping_address"},
			{Name: "taxId", Column: "tax_id"},
			{Name: "hourlyRate", Column: "hourly_rate", Kind: KindNumber},
		},
	}

	Vendor = Entity{
		Name:  "vendor",
		Table: "vendors",
		Fields: Fields{
			{Name: "name", Column: "name"},
			{Name: "email", Column: "email"},
			{Name: "phone", Column: "phone"},
			{Name: "contactPerson", Column: "contact_person"},
			{Name: "address", Column: "address"},
			{Name: "taxId", Column: "tax_id"},
		},
	}

	ImplementationPartner = Entity{
		Name:  "implementation_partner",
		Table: "implementation_partners",
		Fields: Fields{
			{Name: "name", Column: "name"},
			{Name: "email", Column: "email"},
			{Name: "phone", Column: "phone"},
			{Name: "contactPerson", Column: "contact_person"},
		},
	}

	LeaveRequest = Entity{
		Name:  "leave_request",
		Table: "leave_requests",
		Fields: Fields{
			{Name: "reason", Column: "reason"},
			{Name: "reviewComments", Column: "review_comments"},
			{Name: "attachmentName", Column: "attachment_name"},
			{Name: "employeeName", Column: "employee_name"},
		},
	}

	Timesheet = Entity{
		Name:  "timesheet",
		Table: "timesheets",
		Fields: Fields{
			{Name: "notes", Column: "notes"},
			{Name: "employeeName", Column: "employee_name"},
			{Name: "overtimeComment", Column: "overtime_comment"},
			{Name: "rejectionReason", Column: "rejection_reason"},
			{Name: "dailyHours", Column: "daily_hours", Kind: KindJSON},
			{Name: "overtimeDays", Column: "overtime_days", Kind: KindJSON},
		},
	}

	Invoice = Entity{
		Name:  "invoice",
		Table: "invoices",
		Fields: Fields{
			{Name: "notes", Column: "notes"},
			{Name: "lineItems", Column: "line_items", Kind: KindJSON},
		},
	}
)

// Entities returns every entity with encrypted fields.
func Entities() []Entity {
	return []Entity{Employee, Client, Vendor, ImplementationPartner, LeaveRequest, Timesheet, Invoice}
}

// Columns returns the column names of f in declaration order.
func (f Fields) Columns() []string {
	cols := make([]string, len(f))
	for i, field := range f {
		cols[i] = field.Column
	}

	return cols
}
