package estat

import "strings"

// Record field names surfaced to the conversational layer. These match the
// Japanese labels the frontend renders, so they are fixed here rather than
// translated.
const (
	FieldValue = "値"
	FieldArea  = "地域"
	FieldTime  = "時点"
)

// ClassMap is a code→label lookup per classification axis id.
type ClassMap map[string]map[string]string

// Lookup translates a code on the given axis, degrading to the raw code when
// the axis or the code is unknown. Decoding never fails: a partial or missing
// classification must not block an otherwise valid answer.
func (m ClassMap) Lookup(axis, code string) string {
	if labels, ok := m[axis]; ok {
		if label, ok := labels[code]; ok {
			return label
		}
	}
	return code
}

// BuildClassMap flattens a classification block into per-axis code tables.
func BuildClassMap(inf ClassInf) ClassMap {
	m := make(ClassMap, len(inf.Objects))
	for _, obj := range inf.Objects {
		labels := make(map[string]string, len(obj.Classes))
		for _, cls := range obj.Classes {
			labels[cls.Code] = cls.Name
		}
		m[obj.ID] = labels
	}
	return m
}

// StatRecord is one decoded observation: the value plus a labeled entry per
// axis present on the raw row.
type StatRecord map[string]string

// DecodeRow translates one raw observation into a labeled record. Area and
// time are always present; each category axis ("cat01".."catNN") is keyed by
// its declared display name. Unresolvable codes pass through undecoded.
func DecodeRow(v Value, m ClassMap, inf ClassInf) StatRecord {
	rec := StatRecord{
		FieldValue: v.Raw,
		FieldArea:  m.Lookup("area", v.Area),
		FieldTime:  m.Lookup("time", v.Time),
	}

	for axis, code := range v.Axes {
		if !strings.HasPrefix(axis, "cat") {
			continue
		}
		rec[inf.AxisName(axis)] = m.Lookup(axis, code)
	}

	return rec
}

// DecodeValues decodes the observation rows of a table, capped at rowCap
// records to bound response size for the conversational consumer. A rowCap
// of zero or less disables the cap.
func DecodeValues(data *StatisticalData, rowCap int) []StatRecord {
	values := data.DataInf.Values
	if rowCap > 0 && len(values) > rowCap {
		values = values[:rowCap]
	}

	m := BuildClassMap(data.ClassInf)
	records := make([]StatRecord, len(values))
	for i, v := range values {
		records[i] = DecodeRow(v, m, data.ClassInf)
	}
	return records
}
