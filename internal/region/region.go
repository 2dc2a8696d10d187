// Package region classifies crew addresses into the short province names
// used by the directory filter.
package region

import (
	"strings"

	"crewhub/internal/models"
)

// Other is the bucket for addresses that match no known region.
const Other = "기타"

// canonical maps the leading address token onto a short region name. Both
// the official and the common short forms are listed.
var canonical = map[string]string{
	"서울":      "서울",
	"서울시":     "서울",
	"서울특별시":   "서울",
	"부산":      "부산",
	"부산광역시":   "부산",
	"대구":      "대구",
	"대구광역시":   "대구",
	"인천":      "인천",
	"인천광역시":   "인천",
	"광주":      "광주",
	"광주광역시":   "광주",
	"대전":      "대전",
	"대전광역시":   "대전",
	"울산":      "울산",
	"울산광역시":   "울산",
	"세종":      "세종",
	"세종특별자치시": "세종",
	"경기":      "경기",
	"경기도":     "경기",
	"강원":      "강원",
	"강원도":     "강원",
	"강원특별자치도": "강원",
	"충북":      "충북",
	"충청북도":    "충북",
	"충남":      "충남",
	"충청남도":    "충남",
	"전북":      "전북",
	"전라북도":    "전북",
	"전북특별자치도": "전북",
	"전남":      "전남",
	"전라남도":    "전남",
	"경북":      "경북",
	"경상북도":    "경북",
	"경남":      "경남",
	"경상남도":    "경남",
	"제주":      "제주",
	"제주도":     "제주",
	"제주특별자치도": "제주",
}

// Classifier resolves addresses, with optional extra aliases from config.
type Classifier struct {
	aliases map[string]string
}

// NewClassifier creates a classifier. Aliases override the built-in table.
func NewClassifier(aliases map[string]string) *Classifier {
	return &Classifier{aliases: aliases}
}

// Classify returns the region for an address, or Other.
func (c *Classifier) Classify(address string) string {
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return Other
	}
	first := fields[0]
	if c != nil {
		if r, ok := c.aliases[first]; ok {
			return r
		}
	}
	if r, ok := canonical[first]; ok {
		return r
	}
	return Other
}

// Annotate sets Region on every crew from its location.
func (c *Classifier) Annotate(crews []models.Crew) {
	for i := range crews {
		addr := ""
		if crews[i].Location != nil {
			addr = crews[i].Location.Address
		}
		crews[i].Region = c.Classify(addr)
	}
}

// Filter keeps crews in the given region. An empty region keeps all.
// Crews must already be annotated.
func Filter(crews []models.Crew, region string) []models.Crew {
	if region == "" {
		return crews
	}
	out := make([]models.Crew, 0, len(crews))
	for _, crew := range crews {
		if crew.Region == region {
			out = append(out, crew)
		}
	}
	return out
}
