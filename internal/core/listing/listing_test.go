package listing

import "testing"

func TestNormalizeFillsDefaults(t *testing.T) {
	l := &Extracted{}
	l.Normalize()

	if l.PropertyName != DefaultPropertyName {
		t.Errorf("PropertyName: got %q", l.PropertyName)
	}
	if l.PropertyType != DefaultPropertyType {
		t.Errorf("PropertyType: got %q", l.PropertyType)
	}
	if l.Location != DefaultLocation {
		t.Errorf("Location: got %q", l.Location)
	}
	if l.Host.Name != DefaultHostName {
		t.Errorf("Host.Name: got %q", l.Host.Name)
	}
}

func TestNormalizeKeepsRealValues(t *testing.T) {
	l := &Extracted{
		PropertyName: "Lakeview Hideaway",
		PropertyType: "cabin",
		Location:     "Tahoe City, California",
	}
	l.Host.Name = "Dana"
	l.Reviews = []Review{{Name: "", Text: ""}, {Name: "Sofia", Text: "Great."}}
	l.Normalize()

	if l.PropertyName != "Lakeview Hideaway" || l.PropertyType != "cabin" {
		t.Errorf("real values must survive: %+v", l)
	}
	if l.Reviews[0].Name != DefaultReviewName || l.Reviews[0].Text != DefaultReviewText {
		t.Errorf("empty review fields must be defaulted: %+v", l.Reviews[0])
	}
	if l.Reviews[1].Name != "Sofia" || l.Reviews[1].Text != "Great." {
		t.Errorf("populated review fields must survive: %+v", l.Reviews[1])
	}
}
