package estat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Multi is a list that accepts either a JSON array or a bare object during
// unmarshaling. The e-Stat API drops the array wrapping whenever a list has a
// single element, so every possibly-repeated structure is declared as Multi
// and downstream code only ever sees slices.
type Multi[T any] []T

// UnmarshalJSON decodes an array, a single object, or null.
func (m *Multi[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = items
		return nil
	}

	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = Multi[T]{single}
	return nil
}

// CodeText is the {"@code", "$"} pair used for organization and survey names.
type CodeText struct {
	Code string `json:"@code"`
	Text string `json:"$"`
}

// Title accepts both the bare-string and the {"@no", "$"} table title forms.
type Title struct {
	Number string `json:"@no"`
	Text   string `json:"$"`
}

// UnmarshalJSON decodes either a JSON string or a title object.
func (t *Title) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Text)
	}

	type alias Title
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = Title(a)
	return nil
}

// Class is one code/label entry on a classification axis.
type Class struct {
	Code       string `json:"@code"`
	Name       string `json:"@name"`
	Level      string `json:"@level"`
	ParentCode string `json:"@parentCode"`
}

// ClassObj is one classification axis: an id such as "area", "time", or
// "cat01" plus its code table.
type ClassObj struct {
	ID          string       `json:"@id"`
	Name        string       `json:"@name"`
	Description string       `json:"@description"`
	Classes     Multi[Class] `json:"CLASS"`
}

// ClassInf is the classification block of a stats data response.
type ClassInf struct {
	Objects Multi[ClassObj] `json:"CLASS_OBJ"`
}

// AxisName returns the display name declared for an axis id, falling back to
// the id itself when the axis is not present in the classification block.
func (c ClassInf) AxisName(id string) string {
	for _, obj := range c.Objects {
		if obj.ID == id {
			return obj.Name
		}
	}
	return id
}

// Value is one observation row. Beyond the fixed area/time/value fields the
// API attaches one "@<axis>" key per category axis present on the table, so
// the remaining keys are collected into Axes by axis id.
type Value struct {
	Area string
	Time string
	Raw  string
	Axes map[string]string
}

// UnmarshalJSON splits the fixed keys from the dynamic per-axis keys.
func (v *Value) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	v.Axes = make(map[string]string)
	for key, val := range fields {
		switch key {
		case "@area":
			v.Area = val
		case "@time":
			v.Time = val
		case "$":
			v.Raw = val
		default:
			if id, ok := strings.CutPrefix(key, "@"); ok {
				v.Axes[id] = val
			}
		}
	}
	return nil
}

// ResultInfo is the status envelope present on every e-Stat response.
type ResultInfo struct {
	Status   int    `json:"STATUS"`
	ErrorMsg string `json:"ERROR_MSG"`
	Date     string `json:"DATE"`
}

// ResultInf describes the row window returned for a stats data request.
type ResultInf struct {
	FromNumber  int    `json:"FROM_NUMBER"`
	ToNumber    int    `json:"TO_NUMBER"`
	NextKey     string `json:"NEXT_KEY"`
	TotalNumber int    `json:"TOTAL_NUMBER"`
}

// TableInf is the metadata block of a fetched statistical table.
type TableInf struct {
	ID             string   `json:"@id"`
	StatName       CodeText `json:"STAT_NAME"`
	GovOrg         CodeText `json:"GOV_ORG"`
	StatisticsName string   `json:"STATISTICS_NAME"`
	Title          Title    `json:"TITLE"`
	Cycle          string   `json:"CYCLE"`
	SurveyDate     int      `json:"SURVEY_DATE"`
	OpenDate       string   `json:"OPEN_DATE"`
}

// DataInf holds the observation rows of a stats data response.
type DataInf struct {
	Values Multi[Value] `json:"VALUE"`
}

// StatisticalData is the payload of a successful getStatsData call.
type StatisticalData struct {
	ResultInf ResultInf `json:"RESULT_INF"`
	TableInf  TableInf  `json:"TABLE_INF"`
	ClassInf  ClassInf  `json:"CLASS_INF"`
	DataInf   DataInf   `json:"DATA_INF"`
}

type statsDataEnvelope struct {
	GetStatsData struct {
		Result          ResultInfo       `json:"RESULT"`
		StatisticalData *StatisticalData `json:"STATISTICAL_DATA"`
	} `json:"GET_STATS_DATA"`
}

// TableInfo is one table descriptor returned by the catalog search endpoint.
type TableInfo struct {
	ID             string   `json:"@id"`
	StatName       CodeText `json:"STAT_NAME"`
	GovOrg         CodeText `json:"GOV_ORG"`
	StatisticsName string   `json:"STATISTICS_NAME"`
	Title          Title    `json:"TITLE"`
	Cycle          string   `json:"CYCLE"`
	SurveyDate     int      `json:"SURVEY_DATE"`
	OpenDate       string   `json:"OPEN_DATE"`
	CollectArea    string   `json:"COLLECT_AREA"`
	TotalNumber    int      `json:"OVERALL_TOTAL_NUMBER"`
	UpdatedDate    string   `json:"UPDATED_DATE"`
}

// TableList is the payload of a successful getStatsList call.
type TableList struct {
	Number int              `json:"NUMBER"`
	Tables Multi[TableInfo] `json:"TABLE_INF"`
}

type statsListEnvelope struct {
	GetStatsList struct {
		Result      ResultInfo `json:"RESULT"`
		DataListInf *TableList `json:"DATALIST_INF"`
	} `json:"GET_STATS_LIST"`
}
