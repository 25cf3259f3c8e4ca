package workflow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/osl/pkg/dispatch"
	"github.com/aretw0/osl/pkg/domain"
)

// Validation messages.
const (
	MsgTenantNameRequired  = "Tenant name is required."
	MsgProductRequired     = "SKU, name, and price are required."
	MsgAttributesInvalid   = "Attributes must be valid JSON."
	MsgCustomerRequired    = "Customer code and name are required."
	MsgOrderRequired       = "Customer, product, and quantity are required."
	MsgQtyInvalid          = "Quantity must be a positive integer."
	MsgOrderIDRequired     = "Order ID is required."
	MsgStockEventRequired  = "Event type, product, warehouse, and qty are required."
	MsgWarehouseRequired   = "Warehouse code and name are required."
	MsgAddrInvalid         = "Address must be a JSON object."
	MsgProductIDRequired   = "Product ID is required."
	MsgPaginationInvalid   = "Limit and offset must be non-negative integers."
	MsgCustomerIDRequired  = "Customer ID is required."
	MsgNothingToUpdate     = "Provide at least one field to update."
	MsgWarehouseIDRequired = "Warehouse ID is required."
)

// Input describes one form field an action reads.
type Input struct {
	Field       string `json:"field"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description"`
}

// Param is the field name without its form prefix ("order.qty" -> "qty").
func (in Input) Param() string {
	if i := strings.IndexByte(in.Field, '.'); i >= 0 {
		return in.Field[i+1:]
	}
	return in.Field
}

type (
	builder   func(v Values) (dispatch.Request, *domain.Failure)
	chainFunc func(ctx context.Context, c *Coordinator, ref chainRef)
)

// Command is one row of the command table.
type Command struct {
	Descriptor domain.ActionDescriptor `json:"descriptor"`
	Slot       domain.Slot             `json:"slot"`
	Summary    string                  `json:"summary"`
	Inputs     []Input                 `json:"inputs,omitempty"`

	build builder
	chain chainFunc
}

// Name returns the action name.
func (c Command) Name() string {
	return c.Descriptor.Name
}

// resolve maps override keys to field names. Keys may be full field names or
// the short parameter names of this command's inputs.
func (c Command) resolve(overrides map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(overrides))
	for key, val := range overrides {
		field := ""
		for _, in := range c.Inputs {
			if key == in.Field || key == in.Param() {
				field = in.Field
				break
			}
		}
		if field == "" {
			return nil, fmt.Errorf("%w %q for action %s", ErrUnknownField, key, c.Name())
		}
		out[field] = val
	}
	return out, nil
}

func invalid(msg string) *domain.Failure {
	return domain.NewFailure(domain.KindValidation, msg)
}

// firstNonEmpty returns the first trimmed value that is set.
func firstNonEmpty(v Values, fields ...string) string {
	for _, f := range fields {
		if s := v.Get(f); s != "" {
			return s
		}
	}
	return ""
}

// setIfPresent adds key to body only when value is non-empty.
func setIfPresent(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

// Commands returns the standard command table in presentation order.
func Commands() []Command {
	return commandTable()
}

func commandTable() []Command {
	return []Command{
		{
			Descriptor: domain.ActionDescriptor{Name: "create_tenant", Method: http.MethodPost, Path: "/api/tenants", RequireToken: true},
			Slot:       domain.SlotTenant,
			Summary:    "Create a tenant and make it the active tenant",
			Inputs:     []Input{{Field: FieldTenantName, Required: true, Description: "Tenant display name"}},
			build:      buildCreateTenant,
			chain:      chainTenant,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "create_product", Method: http.MethodPost, Path: "/api/products", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotProduct,
			Summary:    "Create a product; its id feeds the order form",
			Inputs: []Input{
				{Field: FieldProductSKU, Required: true, Description: "Stock keeping unit"},
				{Field: FieldProductName, Required: true, Description: "Product name"},
				{Field: FieldProductPrice, Required: true, Description: "Unit price, e.g. 19.90"},
				{Field: FieldProductDescription, Description: "Free text description"},
				{Field: FieldProductAttributes, Description: "Attributes as a JSON document"},
			},
			build: buildCreateProduct,
			chain: chainField(FieldOrderProductID, refID),
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "create_customer", Method: http.MethodPost, Path: "/api/customers", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotCustomer,
			Summary:    "Create a customer; its id feeds the order form",
			Inputs: []Input{
				{Field: FieldCustomerCode, Required: true, Description: "Customer code"},
				{Field: FieldCustomerName, Required: true, Description: "Customer name"},
				{Field: FieldCustomerEmail, Description: "Contact email"},
			},
			build: buildCreateCustomer,
			chain: chainField(FieldOrderCustomerID, refID),
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "create_warehouse", Method: http.MethodPost, Path: "/api/warehouses", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotWarehouse,
			Summary:    "Create a warehouse; its id feeds the stock event form",
			Inputs: []Input{
				{Field: FieldWarehouseCode, Required: true, Description: "Warehouse code"},
				{Field: FieldWarehouseName, Required: true, Description: "Warehouse name"},
				{Field: FieldWarehouseAddr, Description: "Address as a JSON object"},
			},
			build: buildCreateWarehouse,
			chain: chainField(FieldStockWarehouseID, refID),
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "update_product", Method: http.MethodPut, Path: "/api/products/{id}", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotProduct,
			Summary:    "Update a product; only the fields given are sent",
			Inputs: []Input{
				{Field: FieldProductUpdateID, Description: "Product id (defaults to the order product)"},
				{Field: FieldProductUpdateSKU, Description: "New stock keeping unit"},
				{Field: FieldProductUpdateName, Description: "New product name"},
				{Field: FieldProductUpdatePrice, Description: "New unit price"},
				{Field: FieldProductUpdateDescription, Description: "New description"},
				{Field: FieldProductUpdateAttributes, Description: "New attributes as a JSON document"},
			},
			build: buildUpdateProduct,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "update_customer", Method: http.MethodPut, Path: "/api/customers/{id}", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotCustomer,
			Summary:    "Update a customer; only the fields given are sent",
			Inputs: []Input{
				{Field: FieldCustomerUpdateID, Description: "Customer id (defaults to the order customer)"},
				{Field: FieldCustomerUpdateCode, Description: "New customer code"},
				{Field: FieldCustomerUpdateName, Description: "New customer name"},
				{Field: FieldCustomerUpdateEmail, Description: "New contact email"},
			},
			build: buildUpdateCustomer,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "update_warehouse", Method: http.MethodPut, Path: "/api/warehouses/{id}", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotWarehouse,
			Summary:    "Update a warehouse; only the fields given are sent",
			Inputs: []Input{
				{Field: FieldWarehouseUpdateID, Description: "Warehouse id (defaults to the stock warehouse)"},
				{Field: FieldWarehouseUpdateCode, Description: "New warehouse code"},
				{Field: FieldWarehouseUpdateName, Description: "New warehouse name"},
				{Field: FieldWarehouseUpdateAddr, Description: "New address as a JSON object"},
			},
			build: buildUpdateWarehouse,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "create_order", Method: http.MethodPost, Path: "/api/orders", RequireTenant: true, AttachToken: true},
			Slot:       domain.SlotOrder,
			Summary:    "Create a single-line order; its id feeds allocate and release",
			Inputs: []Input{
				{Field: FieldOrderCustomerID, Required: true, Description: "Customer id"},
				{Field: FieldOrderProductID, Required: true, Description: "Product id"},
				{Field: FieldOrderQty, Required: true, Description: "Positive integer quantity"},
				{Field: FieldOrderExternalRef, Description: "External reference"},
			},
			build: buildCreateOrder,
			chain: chainField(FieldOrderID, refOrderID),
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "allocate", Method: http.MethodPost, Path: "/api/orders/{id}/allocate", RequireTenant: true},
			Slot:       domain.SlotAlloc,
			Summary:    "Allocate stock to an order",
			Inputs:     []Input{{Field: FieldOrderID, Required: true, Description: "Order id"}},
			build:      buildOrderTransition,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "release", Method: http.MethodPost, Path: "/api/orders/{id}/release", RequireTenant: true},
			Slot:       domain.SlotAlloc,
			Summary:    "Release an order's allocation",
			Inputs:     []Input{{Field: FieldOrderID, Required: true, Description: "Order id"}},
			build:      buildOrderTransition,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "create_stock_event", Method: http.MethodPost, Path: "/api/stock_events", RequireTenant: true, RequireToken: true},
			Slot:       domain.SlotStock,
			Summary:    "Record a stock ledger event",
			Inputs: []Input{
				{Field: FieldStockEventType, Required: true, Description: "RECEIPT, SHIP, ADJUST_IN or ADJUST_OUT"},
				{Field: FieldStockProductID, Required: true, Description: "Product id"},
				{Field: FieldStockWarehouseID, Required: true, Description: "Warehouse id"},
				{Field: FieldStockQty, Required: true, Description: "Positive integer quantity"},
				{Field: FieldStockLocationID, Description: "Location id"},
				{Field: FieldStockLotID, Description: "Lot id"},
				{Field: FieldStockReason, Description: "Reason"},
			},
			build: buildStockEvent,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "refresh_current_stock", Method: http.MethodPost, Path: "/api/refresh_current_stock", RequireTenant: true, AttachToken: true},
			Slot:       domain.SlotStock,
			Summary:    "Refresh the current stock view",
			build:      buildRefresh,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "search_products", Method: http.MethodGet, Path: "/api/products", RequireTenant: true, AttachToken: true},
			Slot:       domain.SlotSearch,
			Summary:    "Search products by sku or name",
			Inputs: []Input{
				{Field: FieldSearchQuery, Description: "Search text"},
				{Field: FieldSearchLimit, Description: "Page size"},
				{Field: FieldSearchOffset, Description: "Page offset"},
			},
			build: buildSearch,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "current_stock", Method: http.MethodGet, Path: "/api/current_stock", RequireTenant: true, AttachToken: true},
			Slot:       domain.SlotStock,
			Summary:    "Show on-hand stock of a product",
			Inputs:     []Input{{Field: FieldStockProductID, Required: true, Description: "Product id"}},
			build:      buildCurrentStock,
		},
		{
			Descriptor: domain.ActionDescriptor{Name: "health", Method: http.MethodGet, Path: "/health"},
			Slot:       domain.SlotHealth,
			Summary:    "Check that the backend is up",
			build:      buildHealth,
		},
	}
}

func buildCreateTenant(v Values) (dispatch.Request, *domain.Failure) {
	name := v.Get(FieldTenantName)
	if name == "" {
		return dispatch.Request{}, invalid(MsgTenantNameRequired)
	}
	return dispatch.Request{Body: map[string]any{"name": name}}, nil
}

func buildCreateProduct(v Values) (dispatch.Request, *domain.Failure) {
	sku, name, price := v.Get(FieldProductSKU), v.Get(FieldProductName), v.Get(FieldProductPrice)
	if sku == "" || name == "" || price == "" {
		return dispatch.Request{}, invalid(MsgProductRequired)
	}
	attrs, err := parseJSON(v.Get(FieldProductAttributes))
	if err != nil {
		return dispatch.Request{}, invalid(MsgAttributesInvalid)
	}

	body := map[string]any{"sku": sku, "name": name, "price": price, "attributes": attrs}
	setIfPresent(body, "description", v.Get(FieldProductDescription))
	return dispatch.Request{Body: body}, nil
}

func buildCreateCustomer(v Values) (dispatch.Request, *domain.Failure) {
	code, name := v.Get(FieldCustomerCode), v.Get(FieldCustomerName)
	if code == "" || name == "" {
		return dispatch.Request{}, invalid(MsgCustomerRequired)
	}
	body := map[string]any{"code": code, "name": name}
	setIfPresent(body, "email", v.Get(FieldCustomerEmail))
	return dispatch.Request{Body: body}, nil
}

func buildCreateWarehouse(v Values) (dispatch.Request, *domain.Failure) {
	code, name := v.Get(FieldWarehouseCode), v.Get(FieldWarehouseName)
	if code == "" || name == "" {
		return dispatch.Request{}, invalid(MsgWarehouseRequired)
	}
	addr, err := parseJSONObject(v.Get(FieldWarehouseAddr))
	if err != nil {
		return dispatch.Request{}, invalid(MsgAddrInvalid)
	}
	return dispatch.Request{Body: map[string]any{"code": code, "name": name, "addr": addr}}, nil
}

func buildUpdateProduct(v Values) (dispatch.Request, *domain.Failure) {
	id := firstNonEmpty(v, FieldProductUpdateID, FieldOrderProductID)
	if id == "" {
		return dispatch.Request{}, invalid(MsgProductIDRequired)
	}
	body := map[string]any{}
	setIfPresent(body, "sku", v.Get(FieldProductUpdateSKU))
	setIfPresent(body, "name", v.Get(FieldProductUpdateName))
	setIfPresent(body, "price", v.Get(FieldProductUpdatePrice))
	setIfPresent(body, "description", v.Get(FieldProductUpdateDescription))
	if raw := v.Get(FieldProductUpdateAttributes); raw != "" {
		attrs, err := parseJSON(raw)
		if err != nil {
			return dispatch.Request{}, invalid(MsgAttributesInvalid)
		}
		body["attributes"] = attrs
	}
	return updateRequest(id, body)
}

func buildUpdateCustomer(v Values) (dispatch.Request, *domain.Failure) {
	id := firstNonEmpty(v, FieldCustomerUpdateID, FieldOrderCustomerID)
	if id == "" {
		return dispatch.Request{}, invalid(MsgCustomerIDRequired)
	}
	body := map[string]any{}
	setIfPresent(body, "code", v.Get(FieldCustomerUpdateCode))
	setIfPresent(body, "name", v.Get(FieldCustomerUpdateName))
	setIfPresent(body, "email", v.Get(FieldCustomerUpdateEmail))
	return updateRequest(id, body)
}

func buildUpdateWarehouse(v Values) (dispatch.Request, *domain.Failure) {
	id := firstNonEmpty(v, FieldWarehouseUpdateID, FieldStockWarehouseID)
	if id == "" {
		return dispatch.Request{}, invalid(MsgWarehouseIDRequired)
	}
	body := map[string]any{}
	setIfPresent(body, "code", v.Get(FieldWarehouseUpdateCode))
	setIfPresent(body, "name", v.Get(FieldWarehouseUpdateName))
	if raw := v.Get(FieldWarehouseUpdateAddr); raw != "" {
		addr, err := parseJSONObject(raw)
		if err != nil {
			return dispatch.Request{}, invalid(MsgAddrInvalid)
		}
		body["addr"] = addr
	}
	return updateRequest(id, body)
}

func updateRequest(id string, body map[string]any) (dispatch.Request, *domain.Failure) {
	if len(body) == 0 {
		return dispatch.Request{}, invalid(MsgNothingToUpdate)
	}
	return dispatch.Request{PathParams: map[string]string{"id": id}, Body: body}, nil
}

func buildCreateOrder(v Values) (dispatch.Request, *domain.Failure) {
	customerID, productID, qtyRaw := v.Get(FieldOrderCustomerID), v.Get(FieldOrderProductID), v.Get(FieldOrderQty)
	if customerID == "" || productID == "" || qtyRaw == "" {
		return dispatch.Request{}, invalid(MsgOrderRequired)
	}
	qty, err := parsePositiveInt(qtyRaw)
	if err != nil {
		return dispatch.Request{}, invalid(MsgQtyInvalid)
	}

	body := map[string]any{
		"customer_id": customerID,
		"lines":       []map[string]any{{"product_id": productID, "qty": qty}},
	}
	setIfPresent(body, "external_ref", v.Get(FieldOrderExternalRef))
	return dispatch.Request{Body: body}, nil
}

func buildOrderTransition(v Values) (dispatch.Request, *domain.Failure) {
	orderID := v.Get(FieldOrderID)
	if orderID == "" {
		return dispatch.Request{}, invalid(MsgOrderIDRequired)
	}
	return dispatch.Request{
		PathParams: map[string]string{"id": orderID},
		Body:       map[string]any{},
	}, nil
}

func buildStockEvent(v Values) (dispatch.Request, *domain.Failure) {
	eventType := v.Get(FieldStockEventType)
	productID := v.Get(FieldStockProductID)
	warehouseID := v.Get(FieldStockWarehouseID)
	qtyRaw := v.Get(FieldStockQty)
	if eventType == "" || productID == "" || warehouseID == "" || qtyRaw == "" {
		return dispatch.Request{}, invalid(MsgStockEventRequired)
	}
	qty, err := parsePositiveInt(qtyRaw)
	if err != nil {
		return dispatch.Request{}, invalid(MsgQtyInvalid)
	}

	body := map[string]any{
		"event_type":   eventType,
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"qty":          qty,
	}
	setIfPresent(body, "location_id", v.Get(FieldStockLocationID))
	setIfPresent(body, "lot_id", v.Get(FieldStockLotID))
	setIfPresent(body, "reason", v.Get(FieldStockReason))
	return dispatch.Request{Body: body}, nil
}

func buildRefresh(Values) (dispatch.Request, *domain.Failure) {
	return dispatch.Request{Body: map[string]any{}}, nil
}

func buildSearch(v Values) (dispatch.Request, *domain.Failure) {
	q := url.Values{}
	if s := v.Get(FieldSearchQuery); s != "" {
		q.Set("q", s)
	}
	for param, field := range map[string]string{"limit": FieldSearchLimit, "offset": FieldSearchOffset} {
		raw := v.Get(field)
		if raw == "" {
			continue
		}
		n, err := parseNonNegativeInt(raw)
		if err != nil {
			return dispatch.Request{}, invalid(MsgPaginationInvalid)
		}
		q.Set(param, strconv.Itoa(n))
	}
	return dispatch.Request{Query: q}, nil
}

func buildHealth(Values) (dispatch.Request, *domain.Failure) {
	return dispatch.Request{}, nil
}

func buildCurrentStock(v Values) (dispatch.Request, *domain.Failure) {
	productID := v.Get(FieldStockProductID)
	if productID == "" {
		return dispatch.Request{}, invalid(MsgProductIDRequired)
	}
	return dispatch.Request{Query: url.Values{"product_id": {productID}}}, nil
}
