package conneg

import (
	"github.com/dunglas/httpsfv"
)

// variantsValue renders the Variants response header for the configured
// offers: an RFC 8941 dictionary mapping each negotiated request header to
// the inner list of available values, per the HTTP Variants draft
// (draft-ietf-httpbis-variants). Returns "" when there is nothing to
// advertise or a token cannot be represented.
func variantsValue(offers *Offers) string {
	if len(offers.Types) == 0 && len(offers.Encodings) == 0 {
		return ""
	}
	dict := httpsfv.NewDictionary()

	if len(offers.Types) > 0 {
		dict.Add("accept", innerList(offers.Types))
	}
	if len(offers.Encodings) > 0 {
		dict.Add("accept-encoding", innerList(offers.Encodings))
	}

	marshalled, err := httpsfv.Marshal(dict)
	if err != nil {
		// Offer names are validated in NewOffers; a marshal failure means a
		// token RFC 8941 cannot carry, so just skip the advertisement.
		return ""
	}
	return marshalled
}

func innerList(values []Value) httpsfv.InnerList {
	list := httpsfv.InnerList{Params: httpsfv.NewParams()}
	for _, v := range values {
		list.Items = append(list.Items, httpsfv.NewItem(httpsfv.Token(v.Name)))
	}
	return list
}
