package routedata

import (
	"errors"

	"routeguide/internal/domain/route"

	"github.com/tidwall/gjson"
)

var ErrInvalidPageData = errors.New("invalid page data")

type Expedition struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Day   string `json:"day"`
	Route string `json:"route"`
}

// PageData is the subset of the host page's global data used for route selection.
// Ready is false until the page has published expeditions and both town coordinates.
type PageData struct {
	Expeditions []Expedition     `json:"expeditions"`
	Town        route.Coordinate `json:"town"`
	Ready       bool             `json:"ready"`
}

func ParsePageData(raw []byte) (PageData, error) {
	if len(raw) == 0 {
		return PageData{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return PageData{}, ErrInvalidPageData
	}
	doc := gjson.ParseBytes(raw)
	expeditions := doc.Get("expeditions")
	tx := doc.Get("tx")
	ty := doc.Get("ty")

	out := PageData{
		Town: route.Coordinate{X: int(tx.Int()), Y: int(ty.Int())},
	}
	expeditions.ForEach(func(key, value gjson.Result) bool {
		out.Expeditions = append(out.Expeditions, Expedition{
			Key:   key.String(),
			Name:  value.Get("name").String(),
			Day:   value.Get("day").String(),
			Route: value.Get("route").String(),
		})
		return true
	})
	out.Ready = (expeditions.IsObject() || expeditions.IsArray()) && tx.Exists() && ty.Exists()
	return out, nil
}
