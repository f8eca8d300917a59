package assetdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Known asset types.
const (
	TypeCompanyDescription = "company_description"
	TypeTheirStory         = "their_story"
	TypeKeyNumbers         = "key_numbers"
	TypeFunding            = "funding_parser"
	TypeLeadership         = "leadership"
	TypeOfficeLocations    = "office_locations"
	TypePerksAndBenefits   = "perks_and_benefits"
	TypeRemotePolicy       = "remote_policy"
)

// Data is the typed view of a record's payload. The set of implementations
// is closed: one struct per known type plus Opaque for everything else.
type Data interface {
	AssetType() string
}

// Opaque carries the payload of a type this package does not know.
type Opaque struct {
	Type  string
	Value any
}

func (o Opaque) AssetType() string { return o.Type }

// CompanyDescription is the payload of company_description.
type CompanyDescription struct {
	Tagline      string      `json:"tagline"`
	Overview     string      `json:"overview"`
	TargetMarket string      `json:"targetMarket"`
	QuickFacts   []QuickFact `json:"quickFacts"`
	KeyProducts  []Product   `json:"keyProducts"`
}

type QuickFact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (CompanyDescription) AssetType() string { return TypeCompanyDescription }

// TheirStory is the payload of their_story.
type TheirStory struct {
	FoundingStory string      `json:"foundingStory"`
	Founders      []Founder   `json:"founders"`
	AhaMoment     *AhaMoment  `json:"ahaMoment,omitempty"`
	Milestones    []Milestone `json:"milestones"`
}

type Founder struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Background string `json:"background"`
}

type AhaMoment struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Milestone struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (TheirStory) AssetType() string { return TypeTheirStory }

// KeyNumbers is the payload of key_numbers.
type KeyNumbers struct {
	Stats []Stat `json:"stats"`
}

type Stat struct {
	Icon    string `json:"icon"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Context string `json:"context"`
}

func (KeyNumbers) AssetType() string { return TypeKeyNumbers }

// Funding is the payload of funding_parser.
type Funding struct {
	TotalRaised  string         `json:"totalRaised"`
	Valuation    string         `json:"valuation"`
	Status       string         `json:"status"`
	LatestRound  *FundingRound  `json:"latestRound,omitempty"`
	Rounds       []FundingRound `json:"rounds"`
	KeyInvestors []Investor     `json:"keyInvestors"`
}

type FundingRound struct {
	Series        string   `json:"series"`
	Amount        string   `json:"amount"`
	Date          string   `json:"date"`
	Valuation     string   `json:"valuation"`
	Description   string   `json:"description"`
	LeadInvestors []string `json:"leadInvestors"`
}

type Investor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (Funding) AssetType() string { return TypeFunding }

// Leadership is the payload of leadership.
type Leadership struct {
	Introduction string        `json:"introduction"`
	Leaders      []Leader      `json:"leaders"`
	BoardMembers []BoardMember `json:"boardMembers"`
}

type Leader struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Tenure       string   `json:"tenure"`
	Background   string   `json:"background"`
	Quote        string   `json:"quote"`
	Achievements []string `json:"achievements"`
}

type BoardMember struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Affiliation string `json:"affiliation"`
}

func (Leadership) AssetType() string { return TypeLeadership }

// OfficeLocations is the payload of office_locations.
type OfficeLocations struct {
	Headquarters   Office   `json:"headquarters"`
	Offices        []Office `json:"offices"`
	RemotePresence string   `json:"remotePresence"`
}

type Office struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Type        string      `json:"type,omitempty"`
	Address     string      `json:"address"`
	Latitude    *Coordinate `json:"latitude"`
	Longitude   *Coordinate `json:"longitude"`
	Size        string      `json:"size"`
	Description string      `json:"description"`
}

func (OfficeLocations) AssetType() string { return TypeOfficeLocations }

// Coordinate is a latitude or longitude. Form inputs store it as text, so
// both JSON numbers and numeric strings are accepted. A blank string
// decodes as zero; null leaves the pointer nil.
type Coordinate float64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Coordinate(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("coordinate: %s is neither number nor string", b)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	*c = Coordinate(n)
	return nil
}

// PerksAndBenefits is the payload of perks_and_benefits.
type PerksAndBenefits struct {
	Introduction     string            `json:"introduction"`
	StandoutBenefits []StandoutBenefit `json:"standoutBenefits"`
	Categories       []BenefitCategory `json:"categories"`
}

type StandoutBenefit struct {
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BenefitCategory struct {
	Icon     string    `json:"icon"`
	Category string    `json:"category"`
	Benefits []Benefit `json:"benefits"`
}

type Benefit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Highlight   bool   `json:"highlight"`
}

func (PerksAndBenefits) AssetType() string { return TypePerksAndBenefits }

// RemotePolicy is the payload of remote_policy.
type RemotePolicy struct {
	Model        string       `json:"model"`
	Summary      string       `json:"summary"`
	WorkLocation WorkLocation `json:"workLocation"`
	Equipment    Equipment    `json:"equipment"`
	Schedule     Schedule     `json:"schedule"`
	Tools        Tools        `json:"tools"`
	Culture      Culture      `json:"culture"`
}

type WorkLocation struct {
	Policy            string `json:"policy"`
	OfficeExpectation string `json:"officeExpectation"`
	WorkFromAnywhere  string `json:"workFromAnywhere"`
}

type Equipment struct {
	Budget   string `json:"budget"`
	Provided string `json:"provided"`
	Support  string `json:"support"`
}

type Schedule struct {
	Flexibility  string `json:"flexibility"`
	CoreHours    string `json:"coreHours"`
	Asynchronous string `json:"asynchronous"`
}

type Tools struct {
	Communication string `json:"communication"`
	Collaboration string `json:"collaboration"`
	Socializing   string `json:"socializing"`
}

type Culture struct {
	InPerson      string `json:"inPerson"`
	RemoteCulture string `json:"remoteCulture"`
	Inclusion     string `json:"inclusion"`
}

func (RemotePolicy) AssetType() string { return TypeRemotePolicy }

// Kind describes a known asset type.
type Kind struct {
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	Component string         `json:"component"` // editor custom element
	Items     map[string]any `json:"items"`     // list path -> blank item appended by "add"
	new       func() Data
}

// kinds is the registry of known types, keyed by type tag.
var kinds = map[string]Kind{
	TypeCompanyDescription: {
		Type: TypeCompanyDescription, Label: "Company Description", Component: "company-description",
		Items: map[string]any{
			"quickFacts":  map[string]any{"label": "", "value": ""},
			"keyProducts": map[string]any{"name": "", "description": ""},
		},
		new: func() Data { return &CompanyDescription{} },
	},
	TypeTheirStory: {
		Type: TypeTheirStory, Label: "Their Story", Component: "their-story",
		Items: map[string]any{
			"founders":   map[string]any{"name": "", "role": "", "background": ""},
			"milestones": map[string]any{"year": "", "title": "", "description": ""},
		},
		new: func() Data { return &TheirStory{} },
	},
	TypeKeyNumbers: {
		Type: TypeKeyNumbers, Label: "Key Numbers", Component: "key-numbers",
		Items: map[string]any{
			"stats": map[string]any{"icon": "📊", "label": "", "value": "", "context": ""},
		},
		new: func() Data { return &KeyNumbers{} },
	},
	TypeFunding: {
		Type: TypeFunding, Label: "Funding", Component: "funding-parser",
		Items: map[string]any{
			"rounds": map[string]any{
				"series": "", "amount": "", "date": "", "valuation": "", "description": "",
				"leadInvestors": []any{},
			},
			"keyInvestors": map[string]any{"name": "", "type": "", "description": ""},
		},
		new: func() Data { return &Funding{} },
	},
	TypeLeadership: {
		Type: TypeLeadership, Label: "Leadership", Component: "leadership-component",
		Items: map[string]any{
			"leaders": map[string]any{
				"name": "", "title": "", "tenure": "", "background": "", "quote": "",
				"achievements": []any{},
			},
			"boardMembers": map[string]any{"name": "", "role": "", "affiliation": ""},
		},
		new: func() Data { return &Leadership{} },
	},
	TypeOfficeLocations: {
		Type: TypeOfficeLocations, Label: "Office Locations", Component: "office-locations",
		Items: map[string]any{
			"offices": map[string]any{
				"city": "", "country": "", "type": "", "address": "",
				"latitude": nil, "longitude": nil, "size": "", "description": "",
			},
		},
		new: func() Data { return &OfficeLocations{} },
	},
	TypePerksAndBenefits: {
		Type: TypePerksAndBenefits, Label: "Perks & Benefits", Component: "perks-benefits",
		Items: map[string]any{
			"standoutBenefits": map[string]any{"icon": "🎁", "name": "", "description": ""},
			"categories":       map[string]any{"icon": "📦", "category": "", "benefits": []any{}},
			"benefits":         map[string]any{"name": "", "description": "", "highlight": false},
		},
		new: func() Data { return &PerksAndBenefits{} },
	},
	TypeRemotePolicy: {
		Type: TypeRemotePolicy, Label: "Remote Policy", Component: "remote-policy",
		new: func() Data { return &RemotePolicy{} },
	},
}

// Kinds lists the known asset types sorted by type tag.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// LookupKind returns the registry entry for assetType.
func LookupKind(assetType string) (Kind, bool) {
	k, ok := kinds[assetType]
	return k, ok
}

// ComponentName returns the editor element rendering assetType, or "" when
// the type has no renderer.
func ComponentName(assetType string) string {
	return kinds[assetType].Component
}

// NewItem returns a blank item for the list at listPath, or nil when the
// type defines none. The last path segment selects the template so nested
// lists ("categories.0.benefits") resolve too.
func NewItem(assetType, listPath string) any {
	k, ok := kinds[assetType]
	if !ok {
		return nil
	}
	key := listPath
	if i := strings.LastIndex(listPath, PathSeparator); i >= 0 {
		key = listPath[i+1:]
	}
	item, ok := k.Items[key]
	if !ok {
		return nil
	}
	return Clone(item)
}

// DefaultData returns the empty payload of a known type as a JSON tree.
func DefaultData(assetType string) (any, error) {
	k, ok := kinds[assetType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAssetType, assetType)
	}
	return Encode(k.new())
}

// Decode returns the typed view of a record's payload. Unknown types come
// back as Opaque carrying the raw tree; a known type whose payload does
// not fit its struct fails with ErrDecodeData.
func Decode(rec Record) (Data, error) {
	k, ok := kinds[rec.Type]
	if !ok {
		return Opaque{Type: rec.Type, Value: rec.Data}, nil
	}

	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonSerializableData, err)
	}
	data := k.new()
	if rec.Data == nil {
		return deref(data), nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeData, rec.Type, err)
	}
	return deref(data), nil
}

// Encode converts a typed payload back into a JSON tree suitable for
// Record.Data.
func Encode(d Data) (any, error) {
	if o, ok := d.(Opaque); ok {
		return o.Value, nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonSerializableData, err)
	}
	var tree any
	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeData, err)
	}
	return tree, nil
}

// deref turns the registry's pointer into the value type callers switch on.
func deref(d Data) Data {
	switch v := d.(type) {
	case *CompanyDescription:
		return *v
	case *TheirStory:
		return *v
	case *KeyNumbers:
		return *v
	case *Funding:
		return *v
	case *Leadership:
		return *v
	case *OfficeLocations:
		return *v
	case *PerksAndBenefits:
		return *v
	case *RemotePolicy:
		return *v
	}
	return d
}
