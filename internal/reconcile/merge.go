// Package reconcile combines two document extractions under the two
// reconciliation policies: a deep merge that prefers the left
// document's values, and a field-equality match matrix with an overall
// verdict.
package reconcile

import "github.com/a3tai/trade-doc-match/internal/fields"

// Merge combines two extractions into one. For every leaf field the
// left value wins when it is present and non-empty, otherwise the
// right value is taken, which may itself be absent. The result is a
// fresh record; neither input is modified. Merging is total: nil
// inputs behave like records with every field absent.
func Merge(left, right *fields.Extraction) *fields.Extraction {
	if left == nil && right == nil {
		return &fields.Extraction{}
	}
	if left == nil {
		left = &fields.Extraction{}
	}
	if right == nil {
		right = &fields.Extraction{}
	}

	return &fields.Extraction{
		Header: fields.Header{
			ContractNo: preferValue(left.Header.ContractNo, right.Header.ContractNo),
			Date:       preferValue(left.Header.Date, right.Header.Date),
		},
		Company: fields.Company{
			Website:     preferValue(left.Company.Website, right.Company.Website),
			Email:       preferValue(left.Company.Email, right.Company.Email),
			CompanyName: preferValue(left.Company.CompanyName, right.Company.CompanyName),
			Address:     preferValue(left.Company.Address, right.Company.Address),
			GST:         preferValue(left.Company.GST, right.Company.GST),
		},
		Parties: fields.Parties{
			Seller:      preferValue(left.Parties.Seller, right.Parties.Seller),
			Consignee:   preferValue(left.Parties.Consignee, right.Parties.Consignee),
			NotifyParty: preferValue(left.Parties.NotifyParty, right.Parties.NotifyParty),
		},
		Product: fields.Product{
			Name:         preferValue(left.Product.Name, right.Product.Name),
			Quantity:     preferValue(left.Product.Quantity, right.Product.Quantity),
			PricePerUnit: preferValue(left.Product.PricePerUnit, right.Product.PricePerUnit),
			AmountTotal:  preferValue(left.Product.AmountTotal, right.Product.AmountTotal),
			Packing:      preferValue(left.Product.Packing, right.Product.Packing),
		},
		Shipment: fields.Shipment{
			LoadingPort:     preferValue(left.Shipment.LoadingPort, right.Shipment.LoadingPort),
			DestinationPort: preferValue(left.Shipment.DestinationPort, right.Shipment.DestinationPort),
			ShipmentDate:    preferValue(left.Shipment.ShipmentDate, right.Shipment.ShipmentDate),
		},
		BankDetails: fields.BankDetails{
			SellerBank: preferValue(left.BankDetails.SellerBank, right.BankDetails.SellerBank),
			AccountNo:  preferValue(left.BankDetails.AccountNo, right.BankDetails.AccountNo),
		},
		Documents:    preferList(left.Documents, right.Documents),
		PaymentTerms: preferValue(left.PaymentTerms, right.PaymentTerms),
	}
}

// preferValue returns a copy of left when it holds a non-empty value,
// otherwise a copy of right
func preferValue(left, right *string) *string {
	if left != nil && *left != "" {
		return clone(left)
	}
	return clone(right)
}

// preferList returns a copy of left when it has entries, otherwise a
// copy of right
func preferList(left, right []string) []string {
	src := left
	if len(src) == 0 {
		src = right
	}
	if len(src) == 0 {
		return nil
	}

	out := make([]string, len(src))
	copy(out, src)
	return out
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
