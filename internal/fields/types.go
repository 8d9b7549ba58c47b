package fields

import "strings"

// Flat field names in canonical order. The order fixes the column
// layout of the exported table and the key order of flat results.
const (
	FieldContractNo      = "contract_no"
	FieldDate            = "date"
	FieldWebsite         = "website"
	FieldEmail           = "email"
	FieldCompanyName     = "company_name"
	FieldAddress         = "address"
	FieldGST             = "gst"
	FieldSeller          = "seller"
	FieldConsignee       = "consignee"
	FieldNotifyParty     = "notify_party"
	FieldProductName     = "product_name"
	FieldProductQuantity = "product_quantity"
	FieldProductPrice    = "product_price"
	FieldProductAmount   = "product_amount"
	FieldPacking         = "packing"
	FieldLoadingPort     = "loading_port"
	FieldDestinationPort = "destination_port"
	FieldShipmentDate    = "shipment_date"
	FieldSellerBank      = "seller_bank"
	FieldAccountNo       = "account_no"
	FieldDocuments       = "documents"
	FieldPaymentTerms    = "payment_terms"
)

var fieldNames = []string{
	FieldContractNo,
	FieldDate,
	FieldWebsite,
	FieldEmail,
	FieldCompanyName,
	FieldAddress,
	FieldGST,
	FieldSeller,
	FieldConsignee,
	FieldNotifyParty,
	FieldProductName,
	FieldProductQuantity,
	FieldProductPrice,
	FieldProductAmount,
	FieldPacking,
	FieldLoadingPort,
	FieldDestinationPort,
	FieldShipmentDate,
	FieldSellerBank,
	FieldAccountNo,
	FieldDocuments,
	FieldPaymentTerms,
}

// FieldNames returns every catalog field name in canonical order
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// Extraction is the nested representation of one document's recognized
// fields. Absent fields are nil pointers, never empty strings, so API
// consumers can tell "not found" from "found but empty".
type Extraction struct {
	Header       Header      `json:"header"`
	Company      Company     `json:"company"`
	Parties      Parties     `json:"parties"`
	Product      Product     `json:"product"`
	Shipment     Shipment    `json:"shipment"`
	BankDetails  BankDetails `json:"bank_details"`
	Documents    []string    `json:"documents"`
	PaymentTerms *string     `json:"payment_terms"`
}

// Header groups the document identification fields
type Header struct {
	ContractNo *string `json:"contract_no"`
	Date       *string `json:"date"`
}

// Company groups the issuing company fields
type Company struct {
	Website     *string `json:"website"`
	Email       *string `json:"email"`
	CompanyName *string `json:"company_name"`
	Address     *string `json:"address"`
	GST         *string `json:"gst"`
}

// Parties groups the trading party blocks
type Parties struct {
	Seller      *string `json:"seller"`
	Consignee   *string `json:"consignee"`
	NotifyParty *string `json:"notify_party"`
}

// Product groups the product line fields
type Product struct {
	Name         *string `json:"name"`
	Quantity     *string `json:"quantity"`
	PricePerUnit *string `json:"price_per_unit"`
	AmountTotal  *string `json:"amount_total"`
	Packing      *string `json:"packing"`
}

// Shipment groups the shipment routing fields
type Shipment struct {
	LoadingPort     *string `json:"loading_port"`
	DestinationPort *string `json:"destination_port"`
	ShipmentDate    *string `json:"shipment_date"`
}

// BankDetails groups the settlement fields
type BankDetails struct {
	SellerBank *string `json:"seller_bank"`
	AccountNo  *string `json:"account_no"`
}

// Flatten produces the sanitized flat representation used by the
// tabular pipeline. Absent fields become empty strings and the
// documents list is joined back into one comma-separated value.
func (e *Extraction) Flatten() *FlatFields {
	flat := NewFlatFields()
	flat.Set(FieldContractNo, Sanitize(deref(e.Header.ContractNo)))
	flat.Set(FieldDate, Sanitize(deref(e.Header.Date)))
	flat.Set(FieldWebsite, Sanitize(deref(e.Company.Website)))
	flat.Set(FieldEmail, Sanitize(deref(e.Company.Email)))
	flat.Set(FieldCompanyName, Sanitize(deref(e.Company.CompanyName)))
	flat.Set(FieldAddress, Sanitize(deref(e.Company.Address)))
	flat.Set(FieldGST, Sanitize(deref(e.Company.GST)))
	flat.Set(FieldSeller, Sanitize(deref(e.Parties.Seller)))
	flat.Set(FieldConsignee, Sanitize(deref(e.Parties.Consignee)))
	flat.Set(FieldNotifyParty, Sanitize(deref(e.Parties.NotifyParty)))
	flat.Set(FieldProductName, Sanitize(deref(e.Product.Name)))
	flat.Set(FieldProductQuantity, Sanitize(deref(e.Product.Quantity)))
	flat.Set(FieldProductPrice, Sanitize(deref(e.Product.PricePerUnit)))
	flat.Set(FieldProductAmount, Sanitize(deref(e.Product.AmountTotal)))
	flat.Set(FieldPacking, Sanitize(deref(e.Product.Packing)))
	flat.Set(FieldLoadingPort, Sanitize(deref(e.Shipment.LoadingPort)))
	flat.Set(FieldDestinationPort, Sanitize(deref(e.Shipment.DestinationPort)))
	flat.Set(FieldShipmentDate, Sanitize(deref(e.Shipment.ShipmentDate)))
	flat.Set(FieldSellerBank, Sanitize(deref(e.BankDetails.SellerBank)))
	flat.Set(FieldAccountNo, Sanitize(deref(e.BankDetails.AccountNo)))
	flat.Set(FieldDocuments, Sanitize(strings.Join(e.Documents, ", ")))
	flat.Set(FieldPaymentTerms, Sanitize(deref(e.PaymentTerms)))
	return flat
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FlatFields is an ordered mapping of flat field names to sanitized
// string values. Iteration order is insertion order, which for flat
// results produced by Flatten is the canonical field order.
type FlatFields struct {
	names  []string
	values map[string]string
}

// NewFlatFields creates an empty ordered field mapping
func NewFlatFields() *FlatFields {
	return &FlatFields{
		values: make(map[string]string),
	}
}

// Set stores a value under name. The first Set of a name fixes its
// position; later calls overwrite the value in place.
func (f *FlatFields) Set(name, value string) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Get returns the value stored under name, or an empty string
func (f *FlatFields) Get(name string) string {
	return f.values[name]
}

// Has reports whether name has been set
func (f *FlatFields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Names returns the field names in insertion order
func (f *FlatFields) Names() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// Len returns the number of fields
func (f *FlatFields) Len() int {
	return len(f.names)
}
