package target

import "testing"

func TestDeriveListingID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.airbnb.com/rooms/12345", "12345"},
		{"https://www.airbnb.com/rooms/12345?check_in=2026-10-01", "12345"},
		{"https://www.airbnb.com/rooms/plus/67890", "67890"},
		{"https://www.vrbo.com/listing/abcd-1234", "abcd-1234"},
		{"https://www.booking.com/homes/555", "555"},
		{"https://stay.example.com/h/cozy-cabin-42", "cozy-cabin-42"},
		{"https://legacy.example.com/view?id=987", "987"},
		{"https://www.airbnb.com/s/Lake-Tahoe/homes", ""},
		{"https://example.com/about", ""},
		{"not a url at all", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DeriveListingID(tc.url); got != tc.want {
			t.Errorf("DeriveListingID(%q): got %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestResolveValidation(t *testing.T) {
	svc := NewService()
	for _, bad := range []string{"", "ftp://example.com/rooms/1", "no-scheme.com/rooms/1", "https://"} {
		if _, err := svc.Resolve(bad, ""); err == nil {
			t.Errorf("Resolve(%q) should fail", bad)
		}
	}
}

func TestResolveKeepsProvidedAddress(t *testing.T) {
	svc := NewService()
	// An address hint supplied by the caller suppresses the network probe.
	tgt, err := svc.Resolve("https://www.airbnb.com/rooms/12345", " Asheville, NC ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tgt.ListingID != "12345" {
		t.Errorf("ListingID: got %q", tgt.ListingID)
	}
	if tgt.AddressHint != "Asheville, NC" {
		t.Errorf("AddressHint: got %q", tgt.AddressHint)
	}
}

func TestLocalityFromTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Cozy A-frame in Asheville, North Carolina", "Asheville, North Carolina"},
		{"Sunny Loft - Lisbon, Portugal - Vrbo", "Lisbon, Portugal"},
		{"Just a listing title", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := localityFromTitle(tc.in); got != tc.want {
			t.Errorf("localityFromTitle(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
