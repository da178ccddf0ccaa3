package metadata

// Pure document update functions. Every update produces a new document value;
// inputs are never mutated. Each new version must contain a superset, in
// order, of the prior version's transactions plus at most one new event.

// WithTransfer returns a new document reflecting an ownership change: the
// owner is replaced, the current listing and offers are cleared, the previous
// price is set to the prior listing price, and the event is appended to the
// history.
func WithTransfer(d NFTDocument, newOwner string, event Transaction) NFTDocument {
	out := cloneDocument(d)
	out.OwnerWallet = newOwner
	out.PreviousPrice = d.CurrentListingPrice
	out.CurrentListingPrice = ""
	out.Offers = nil
	out.Transactions = append(out.Transactions, event)
	return out
}

// WithOffer returns a new document with the offer appended
func WithOffer(d NFTDocument, offer Offer) NFTDocument {
	out := cloneDocument(d)
	out.Offers = append(out.Offers, offer)
	return out
}

// WithListing returns a new document with the listing fields replaced. The
// transaction history is untouched unless the caller supplies an event.
func WithListing(d NFTDocument, price, previousPrice string, event *Transaction) NFTDocument {
	out := cloneDocument(d)
	out.CurrentListingPrice = price
	out.PreviousPrice = previousPrice
	if event != nil {
		out.Transactions = append(out.Transactions, *event)
	}
	return out
}

// cloneDocument deep-copies the slice-valued fields so appends on the copy
// never alias the original's backing arrays
func cloneDocument(d NFTDocument) NFTDocument {
	out := d
	out.Attributes = append([]Attribute(nil), d.Attributes...)
	out.Offers = append([]Offer(nil), d.Offers...)
	out.Transactions = cloneTransactions(d.Transactions)
	return out
}

func cloneTransactions(transactions []Transaction) []Transaction {
	if transactions == nil {
		return nil
	}
	return append([]Transaction(nil), transactions...)
}
