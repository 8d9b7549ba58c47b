package fields

import (
	"fmt"
	"regexp"
)

// Rule binds one recognition pattern to one or more catalog fields.
// The pattern's capture groups map positionally onto Fields; a rule
// with several fields assigns all of them from a single match or none
// at all.
type Rule struct {
	// Fields names the catalog fields bound by the capture groups,
	// in group order
	Fields []string `json:"fields"`
	// Pattern is the regular expression evaluated against normalized
	// document text
	Pattern string `json:"pattern"`

	re *regexp.Regexp
}

// Catalog is the ordered recognition rule set. Rules are tried in
// order; for each field the first rule producing a non-empty capture
// wins, so later rules for the same field act as fallbacks.
type Catalog struct {
	rules []Rule
}

// defaultRules returns the built-in recognition rule table for trade
// documents. Labels are matched case-insensitively except where the
// source layouts are reliably uppercase.
func defaultRules() []Rule {
	return []Rule{
		{
			Fields:  []string{FieldContractNo},
			Pattern: `(?i)Contract No[:\s]*([A-Z0-9./-]+)`,
		},
		{
			Fields:  []string{FieldDate},
			Pattern: `(?i)Date[:\s]*([0-9]{4}-[0-9]{2}-[0-9]{2}|[0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4})`,
		},
		{
			Fields:  []string{FieldWebsite},
			Pattern: `(?i)Website[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldEmail},
			Pattern: `(?i)Email[:\s]*([^\n]+)`,
		},
		{
			// Structural rule: an uppercase company line ending in the
			// legal suffix, anchored to line starts
			Fields:  []string{FieldCompanyName},
			Pattern: `(?m)^([A-Z][A-Z0-9 &]*PVT LTD)`,
		},
		{
			Fields:  []string{FieldAddress},
			Pattern: `(?i)Address[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldGST},
			Pattern: `(?i)GST[:\s]*([^\n]+)`,
		},
		{
			// Fallback for layouts that run the registration number
			// straight after the GSTIN marker
			Fields:  []string{FieldGST},
			Pattern: `(?i)GSTIN([0-9A-Z]+)`,
		},
		{
			Fields:  []string{FieldSeller},
			Pattern: `(?i)SELLER\s+([\s\S]+?)\s+CONSIGNEE`,
		},
		{
			Fields:  []string{FieldConsignee},
			Pattern: `(?i)CONSIGNEE\s+([\s\S]+?)\s+NOTIFY PARTY`,
		},
		{
			Fields:  []string{FieldNotifyParty},
			Pattern: `(?i)NOTIFY PARTY\s+([\s\S]+?)\s+Product`,
		},
		{
			// The trailing section label is optional in some layouts
			Fields:  []string{FieldNotifyParty},
			Pattern: `(?i)NOTIFY PARTY\s+([\s\S]+)$`,
		},
		{
			// The product line carries name, quantity, unit price and
			// total in sequence; all four bind from one match
			Fields: []string{
				FieldProductName,
				FieldProductQuantity,
				FieldProductPrice,
				FieldProductAmount,
			},
			Pattern: `(?i)([A-Za-z &-]+?)\s+([0-9,]+(?:\s*[A-Za-z]+)?)\s+([0-9.,]+\s*USD/\w+)\s+([0-9.,]+\s*USD)`,
		},
		{
			Fields:  []string{FieldPacking},
			Pattern: `(?i)Packing[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldLoadingPort},
			Pattern: `(?i)Loading Port[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldDestinationPort},
			Pattern: `(?i)Destination Port[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldShipmentDate},
			Pattern: `(?i)Shipment[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldSellerBank},
			Pattern: `(?i)Seller['’]?s Bank[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldAccountNo},
			Pattern: `(?i)Account No\.?:\s*([0-9\s-]+)`,
		},
		{
			Fields:  []string{FieldDocuments},
			Pattern: `(?i)Documents[:\s]*([^\n]+)`,
		},
		{
			Fields:  []string{FieldPaymentTerms},
			Pattern: `(?i)Payment Terms[:\s]*([^\n]+)`,
		},
	}
}

// DefaultCatalog returns the built-in rule catalog
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultRules())
	if err != nil {
		// The built-in table is fixed at compile time
		panic(err)
	}
	return catalog
}

// NewCatalog compiles rules into a catalog. Every rule must name at
// least one known field and its pattern must carry exactly one capture
// group per named field.
func NewCatalog(rules []Rule) (*Catalog, error) {
	known := make(map[string]bool, len(fieldNames))
	for _, name := range fieldNames {
		known[name] = true
	}

	compiled := make([]Rule, 0, len(rules))
	for i, rule := range rules {
		if len(rule.Fields) == 0 {
			return nil, fmt.Errorf("rule %d: no fields bound", i)
		}
		for _, field := range rule.Fields {
			if !known[field] {
				return nil, fmt.Errorf("rule %d: unknown field %q", i, field)
			}
		}

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i, rule.Fields[0], err)
		}
		if re.NumSubexp() != len(rule.Fields) {
			return nil, fmt.Errorf("rule %d (%s): pattern has %d capture groups, expected %d",
				i, rule.Fields[0], re.NumSubexp(), len(rule.Fields))
		}

		rule.re = re
		compiled = append(compiled, rule)
	}

	return &Catalog{rules: compiled}, nil
}

// Rules returns the compiled rules in evaluation order
func (c *Catalog) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Size returns the number of rules in the catalog
func (c *Catalog) Size() int {
	return len(c.rules)
}
