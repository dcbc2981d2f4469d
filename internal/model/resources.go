package model

// Resource keys, also the /api path segments.
const (
	ResourceProducts  = "products"
	ResourceStocks    = "stocks"
	ResourceOrders    = "orders"
	ResourceSuppliers = "suppliers"
	ResourceWarehouse = "warehouse"
	ResourceAuditLog  = "audit_log"
)

// DefaultResources returns the six inventory resources. Only warehouse opts
// into id and body validation, matching the deployed API.
func DefaultResources() []Resource {
	return []Resource{
		{
			Key:     ResourceProducts,
			Name:    "Product",
			Title:   "Products",
			Table:   "products",
			IDField: "id",
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindString, Rule: "omitempty,notblank"},
				{Name: "description", Label: "Description", Kind: KindText},
				{Name: "price", Label: "Price", Kind: KindNumber, Rule: "omitempty,gte=0"},
				{Name: "category", Label: "Category", Kind: KindString},
			},
		},
		{
			Key:     ResourceStocks,
			Name:    "Stock",
			Title:   "Stocks",
			Table:   "stocks",
			IDField: "id",
			Fields: []Field{
				{Name: "product_id", Label: "Product", Kind: KindInt, Ref: ResourceProducts, RefLabel: "name", Filter: true},
				{Name: "warehouse_id", Label: "Warehouse", Kind: KindInt, Ref: ResourceWarehouse, RefLabel: "name", Filter: true},
				{Name: "quantity", Label: "Quantity", Kind: KindInt, Rule: "omitempty,gte=0"},
				{Name: "min_quantity", Label: "Minimum Quantity", Kind: KindInt, Rule: "omitempty,gte=0"},
				{Name: "unit_cost", Label: "Unit Cost", Kind: KindNumber, Rule: "omitempty,gte=0"},
				{Name: "last_checked", Label: "Last Checked", Kind: KindDate},
				{Name: "notes", Label: "Notes", Kind: KindText},
			},
			Lookups: []Lookup{
				{Path: "/product/:product_id", Param: "product_id", Field: "product_id"},
			},
		},
		{
			Key:     ResourceOrders,
			Name:    "Order",
			Title:   "Orders",
			Table:   "orders",
			IDField: "id",
			Fields: []Field{
				{Name: "customer_id", Label: "Customer", Kind: KindString},
				{Name: "order_date", Label: "Order Date", Kind: KindDate},
				{Name: "total_amount", Label: "Total Amount", Kind: KindNumber, Rule: "omitempty,gte=0"},
				{Name: "status", Label: "Status", Kind: KindString, Options: OrderStatuses},
				{Name: "payment_method", Label: "Payment Method", Kind: KindString},
				{Name: "shipping_address", Label: "Shipping Address", Kind: KindText},
			},
		},
		{
			Key:     ResourceSuppliers,
			Name:    "Supplier",
			Title:   "Suppliers",
			Table:   "suppliers",
			IDField: "id",
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindString},
				{Name: "contact_name", Label: "Contact Name", Kind: KindString},
				{Name: "email", Label: "Email", Kind: KindString, Rule: "omitempty,email"},
				{Name: "phone", Label: "Phone", Kind: KindString},
				{Name: "address", Label: "Address", Kind: KindText},
				{Name: "status", Label: "Status", Kind: KindString, Rule: "omitempty,oneof=active inactive", Options: []string{SupplierActive, SupplierInactive}},
			},
		},
		{
			Key:         ResourceWarehouse,
			Name:        "Warehouse item",
			Title:       "Warehouse",
			Table:       "warehouse",
			IDField:     "id",
			IDFormat:    IDInt,
			RequireBody: true,
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindString},
				{Name: "description", Label: "Description", Kind: KindText},
				{Name: "quantity", Label: "Quantity", Kind: KindInt, Rule: "omitempty,gte=0"},
				{Name: "price", Label: "Price", Kind: KindNumber, Rule: "omitempty,gte=0"},
			},
		},
		{
			Key:     ResourceAuditLog,
			Name:    "Audit log entry",
			Title:   "Audit Log",
			Table:   "audit_log",
			IDField: "id",
			Fields: []Field{
				{Name: "user_id", Label: "User", Kind: KindString},
				{Name: "action", Label: "Action", Kind: KindString},
				{Name: "resource_type", Label: "Resource Type", Kind: KindString},
				{Name: "resource_id", Label: "Resource ID", Kind: KindString},
				{Name: "details", Label: "Details", Kind: KindText},
			},
		},
	}
}

// FindResource returns the resource with the given key.
func FindResource(resources []Resource, key string) (Resource, bool) {
	for _, r := range resources {
		if r.Key == key {
			return r, true
		}
	}
	return Resource{}, false
}
