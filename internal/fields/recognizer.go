package fields

import (
	"regexp"
	"strings"
)

var horizontalSpace = regexp.MustCompile(`[ \t]+`)

// Normalize prepares raw extracted text for recognition: carriage
// returns become newlines and runs of horizontal whitespace collapse to
// a single space. PDF text extraction inserts irregular spacing that
// would otherwise defeat the literal label anchors.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "\n")
	return horizontalSpace.ReplaceAllString(text, " ")
}

// Recognizer applies a rule catalog to document text
type Recognizer struct {
	catalog *Catalog
}

// NewRecognizer creates a recognizer backed by catalog, or by the
// built-in catalog when catalog is nil
func NewRecognizer(catalog *Catalog) *Recognizer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Recognizer{catalog: catalog}
}

// Catalog returns the catalog the recognizer evaluates
func (r *Recognizer) Catalog() *Catalog {
	return r.catalog
}

// Recognize normalizes text and evaluates the catalog against it.
// Evaluation is total: a field with no matching rule is simply absent
// in the result, and a rule whose captures trim to empty contributes
// nothing, leaving later rules for the same field as fallbacks.
func (r *Recognizer) Recognize(text string) *Extraction {
	normalized := Normalize(text)

	values := make(map[string]string)
	for _, rule := range r.catalog.rules {
		if allBound(values, rule.Fields) {
			continue
		}

		m := rule.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}

		// A multi-field rule assigns every field from this one match
		// or none of them
		captures := make([]string, len(rule.Fields))
		complete := true
		for i := range rule.Fields {
			v := strings.TrimSpace(m[i+1])
			if v == "" {
				complete = false
				break
			}
			captures[i] = v
		}
		if !complete {
			continue
		}

		for i, field := range rule.Fields {
			if _, ok := values[field]; !ok {
				values[field] = captures[i]
			}
		}
	}

	return buildExtraction(values)
}

func allBound(values map[string]string, names []string) bool {
	for _, name := range names {
		if _, ok := values[name]; !ok {
			return false
		}
	}
	return true
}

// buildExtraction shapes the recognized values into the nested record
func buildExtraction(values map[string]string) *Extraction {
	return &Extraction{
		Header: Header{
			ContractNo: opt(values, FieldContractNo),
			Date:       opt(values, FieldDate),
		},
		Company: Company{
			Website:     opt(values, FieldWebsite),
			Email:       opt(values, FieldEmail),
			CompanyName: opt(values, FieldCompanyName),
			Address:     opt(values, FieldAddress),
			GST:         opt(values, FieldGST),
		},
		Parties: Parties{
			Seller:      opt(values, FieldSeller),
			Consignee:   opt(values, FieldConsignee),
			NotifyParty: opt(values, FieldNotifyParty),
		},
		Product: Product{
			Name:         opt(values, FieldProductName),
			Quantity:     opt(values, FieldProductQuantity),
			PricePerUnit: opt(values, FieldProductPrice),
			AmountTotal:  opt(values, FieldProductAmount),
			Packing:      opt(values, FieldPacking),
		},
		Shipment: Shipment{
			LoadingPort:     opt(values, FieldLoadingPort),
			DestinationPort: opt(values, FieldDestinationPort),
			ShipmentDate:    opt(values, FieldShipmentDate),
		},
		BankDetails: BankDetails{
			SellerBank: opt(values, FieldSellerBank),
			AccountNo:  opt(values, FieldAccountNo),
		},
		Documents:    splitDocuments(values[FieldDocuments]),
		PaymentTerms: opt(values, FieldPaymentTerms),
	}
}

func opt(values map[string]string, name string) *string {
	v, ok := values[name]
	if !ok {
		return nil
	}
	return &v
}

// splitDocuments turns the captured document list into individual
// trimmed names
func splitDocuments(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	docs := make([]string, 0, len(parts))
	for _, part := range parts {
		if doc := strings.TrimSpace(part); doc != "" {
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return nil
	}
	return docs
}
