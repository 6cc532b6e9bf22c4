// Package classify implements the deterministic rule engine that maps raw
// policy text and metadata to the classified attributes stored on a policy.
// All keyword tables live in a Rules value handed to the constructor, so
// tests can override them and nothing global is mutated.
package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sharathb5/PolicyRadar/internal/models"
)

// Input carries everything the classifier may look at. EffectiveDate is the
// only time-like input and is caller-supplied; the classifier never reads the
// wall clock.
type Input struct {
	Title        string
	Text         string
	Summary      string
	Jurisdiction string
	Source       string
}

// Result is the classified view of a raw item.
type Result struct {
	PolicyType   string
	Status       string
	Scopes       []int64
	Jurisdiction string
	Mandatory    bool
	Confidence   float64
}

// TypeFamily binds a policy type to the keyword pattern that asserts it.
// Families are evaluated in slice order; the first match wins.
type TypeFamily struct {
	Type    string
	Pattern string
}

// StatusTier binds a status to its phrasing pattern. Tiers are evaluated in
// slice order; the first match wins and the last tier's status doubles as the
// default.
type StatusTier struct {
	Status  string
	Pattern string
}

// Rules is the full, immutable configuration of the classifier.
type Rules struct {
	TypeFamilies []TypeFamily
	// DefaultType is used when no family matches; the result must still be
	// one of the five enumerated types, just with reduced confidence.
	DefaultType   string
	ScopePatterns map[int64]string
	StatusTiers   []StatusTier
	DefaultStatus string
	// ObligationPattern marks a policy mandatory when it matches the text.
	ObligationPattern string
	// SourceJurisdictions maps a lower-cased source-name fragment to a
	// jurisdiction, consulted only when the caller supplies none.
	SourceJurisdictions map[string]string
}

// DefaultRules returns the production keyword tables.
func DefaultRules() Rules {
	return Rules{
		TypeFamilies: []TypeFamily{
			{models.PolicyTypeDisclosure, `\b(disclosure|disclose|disclosures|reporting|report|reports)\b`},
			{models.PolicyTypePricing, `\b(carbon tax|carbon price|carbon pricing|pricing|emissions trading|cap[- ]and[- ]trade|levy)\b`},
			{models.PolicyTypeBan, `\b(ban|bans|banned|phase[- ]?out|prohibit|prohibits|prohibition)\b`},
			{models.PolicyTypeIncentive, `\b(incentive|incentives|tax credit|credit|credits|subsidy|subsidies|grant|grants|rebate|rebates)\b`},
			{models.PolicyTypeSupplyChain, `\b(supply[- ]chain|due diligence|traceability)\b`},
		},
		DefaultType: models.PolicyTypeDisclosure,
		ScopePatterns: map[int64]string{
			1: `\bdirect\b|\bon[- ]?site\b|\bfacilit(y|ies)\b|\bscopes?\b[^.]{0,40}\b1\b`,
			2: `\bpurchased (energy|electricity)\b|\belectricity\b|\bindirect\b|\bscopes?\b[^.]{0,40}\b2\b`,
			3: `\bsuppliers?\b|\bvalue[- ]chain\b|\bupstream\b|\bdownstream\b|\bscopes?\b[^.]{0,40}\b3\b`,
		},
		StatusTiers: []StatusTier{
			{models.StatusEffective, `\b(effective|in force|in effect|enters|entered|takes effect)\b`},
			{models.StatusAdopted, `\b(adopted|adopts|approved|enacted|finalized|finalised|updates?|amended|amends)\b`},
			{models.StatusProposed, `\b(proposed|proposes|proposal|draft|consultation)\b`},
		},
		DefaultStatus:     models.StatusProposed,
		ObligationPattern: `\b(mandatory|required|must|shall|compliance|penalty|enforcement)\b`,
		SourceJurisdictions: map[string]string{
			"european commission": models.JurisdictionEU,
			"eur-lex":             models.JurisdictionEU,
			"efrag":               models.JurisdictionEU,
			"sec":                 models.JurisdictionUSFederal,
			"federal register":    models.JurisdictionUSFederal,
			"epa":                 models.JurisdictionUSFederal,
			"california":          models.JurisdictionUSCA,
			"carb":                models.JurisdictionUSCA,
			"oal":                 models.JurisdictionUSCA,
			"uk government":       models.JurisdictionUK,
			"gov.uk":              models.JurisdictionUK,
		},
	}
}

// Classifier evaluates Rules with all patterns pre-compiled.
type Classifier struct {
	rules      Rules
	typeRes    []*regexp.Regexp
	scopeRes   map[int64]*regexp.Regexp
	statusRes  []*regexp.Regexp
	obligation *regexp.Regexp
}

// New compiles the rule patterns. Pattern errors are programmer errors and
// panic via regexp.MustCompile.
func New(rules Rules) *Classifier {
	c := &Classifier{
		rules:      rules,
		scopeRes:   make(map[int64]*regexp.Regexp, len(rules.ScopePatterns)),
		obligation: regexp.MustCompile(rules.ObligationPattern),
	}
	for _, f := range rules.TypeFamilies {
		c.typeRes = append(c.typeRes, regexp.MustCompile(f.Pattern))
	}
	for scope, p := range rules.ScopePatterns {
		c.scopeRes[scope] = regexp.MustCompile(p)
	}
	for _, t := range rules.StatusTiers {
		c.statusRes = append(c.statusRes, regexp.MustCompile(t.Pattern))
	}
	return c
}

// Classify maps raw text and metadata to policy attributes. Identical inputs
// always yield identical output.
func (c *Classifier) Classify(in Input) Result {
	typeText := strings.ToLower(in.Title + " " + in.Text)
	fullText := strings.ToLower(in.Title + " " + in.Summary + " " + in.Text)
	statusText := strings.ToLower(in.Text)

	policyType, typeMatched := c.policyType(typeText)
	scopes := c.scopes(fullText)
	mandatory := c.obligation.MatchString(statusText)
	jurisdiction := c.jurisdiction(in.Jurisdiction, in.Source)

	return Result{
		PolicyType:   policyType,
		Status:       c.status(statusText),
		Scopes:       scopes,
		Jurisdiction: jurisdiction,
		Mandatory:    mandatory,
		Confidence:   c.confidence(typeMatched, scopes, mandatory, jurisdiction),
	}
}

func (c *Classifier) policyType(text string) (string, bool) {
	for i, f := range c.rules.TypeFamilies {
		if c.typeRes[i].MatchString(text) {
			return f.Type, true
		}
	}
	return c.rules.DefaultType, false
}

func (c *Classifier) scopes(text string) []int64 {
	var scopes []int64
	for scope, re := range c.scopeRes {
		if re.MatchString(text) {
			scopes = append(scopes, scope)
		}
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })
	return scopes
}

func (c *Classifier) status(text string) string {
	for i, t := range c.rules.StatusTiers {
		if c.statusRes[i].MatchString(text) {
			return t.Status
		}
	}
	return c.rules.DefaultStatus
}

func (c *Classifier) jurisdiction(supplied, source string) string {
	if supplied != "" {
		return supplied
	}
	lower := strings.ToLower(source)
	for fragment, jurisdiction := range c.rules.SourceJurisdictions {
		if strings.Contains(lower, fragment) {
			return jurisdiction
		}
	}
	return models.JurisdictionOther
}

// confidence is a weighted combination of signal strength. Strong multi-signal
// matches land above 0.8; a single weak signal with an unrecognized
// jurisdiction stays below 0.7. Rounded to two decimals so repeated runs
// produce byte-identical values.
func (c *Classifier) confidence(typeMatched bool, scopes []int64, mandatory bool, jurisdiction string) float64 {
	conf := 0.5
	if typeMatched {
		conf += 0.15
	} else {
		conf -= 0.05
	}
	if len(scopes) > 0 {
		conf += 0.10
	}
	if len(scopes) > 1 {
		conf += 0.05
	}
	if mandatory {
		conf += 0.10
	}
	if jurisdiction != models.JurisdictionOther {
		conf += 0.10
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return math.Round(conf*100) / 100
}
