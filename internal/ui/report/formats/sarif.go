package formats

import (
	"encoding/json"
	"hookdeps/internal/core/app"
	"hookdeps/internal/engine/deps"
	"hookdeps/internal/shared/version"
	"time"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDPrefix = "exhaustive-deps/"
	srcRoot      = "%SRCROOT%"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Invocations       []sarifInvocation      `json:"invocations"`
	Results           []sarifResult          `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifAutomationDetails struct {
	ID   string `json:"id"`
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	EndTimeUTC          string              `json:"endTimeUtc"`
	Notifications       []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	ByteOffset  int `json:"byteOffset"`
	ByteLength  int `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifContent `json:"insertedContent,omitempty"`
}

type sarifContent struct {
	Text string `json:"text"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from lint results. File URIs
// are made relative to projectRoot; runID becomes automationDetails.guid.
func GenerateSARIF(projectRoot string, files []app.FileResult, runID uuid.UUID) ([]byte, error) {
	rules, index := buildSARIFRules()
	results := make([]sarifResult, 0)
	var notifications []sarifNotification

	for _, f := range files {
		artifact := sarifArtifactLocation{URI: relativeURI(projectRoot, f.Path), URIBaseID: srcRoot}
		if f.Err != nil {
			notifications = append(notifications, sarifNotification{
				Level:     "error",
				Message:   sarifMessage{Text: f.Err.Error()},
				Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: artifact}}},
			})
			continue
		}
		for _, d := range f.Diagnostics {
			result := sarifResult{
				RuleID:    ruleIDPrefix + d.Kind.String(),
				RuleIndex: index[d.Kind],
				Level:     levelFor(d.Kind),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: artifact,
						Region: &sarifRegion{
							StartLine:   d.Span.Pos.Line,
							StartColumn: d.Span.Pos.Column,
							ByteOffset:  d.Span.Start,
							ByteLength:  d.Span.End - d.Span.Start,
						},
					},
				}},
			}
			if d.Fix != nil {
				result.Fixes = []sarifFix{sarifFixFor(artifact, d.Fix)}
			}
			results = append(results, result)
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    version.Name,
						Version: version.Version,
						Rules:   rules,
					},
				},
				AutomationDetails: sarifAutomationDetails{
					ID:   version.Name + "/" + runID.String(),
					GUID: runID.String(),
				},
				Invocations: []sarifInvocation{{
					ExecutionSuccessful: len(notifications) == 0,
					EndTimeUTC:          time.Now().UTC().Format(time.RFC3339),
					Notifications:       notifications,
				}},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

func sarifFixFor(artifact sarifArtifactLocation, fix *deps.Fix) sarifFix {
	replacements := make([]sarifReplacement, 0, len(fix.Edits))
	for _, e := range fix.Edits {
		r := sarifReplacement{DeletedRegion: sarifRegion{ByteOffset: e.Start, ByteLength: e.End - e.Start}}
		if e.NewText != "" {
			r.InsertedContent = &sarifContent{Text: e.NewText}
		}
		replacements = append(replacements, r)
	}
	return sarifFix{
		Description:     sarifMessage{Text: fix.Description},
		ArtifactChanges: []sarifArtifactChange{{ArtifactLocation: artifact, Replacements: replacements}},
	}
}

// buildSARIFRules describes every diagnostic kind so ruleIndex is stable
// across runs.
func buildSARIFRules() ([]sarifRule, map[deps.Kind]int) {
	kinds := deps.Kinds()
	rules := make([]sarifRule, 0, len(kinds))
	index := make(map[deps.Kind]int, len(kinds))
	for i, k := range kinds {
		index[k] = i
		rules = append(rules, sarifRule{
			ID:               ruleIDPrefix + k.String(),
			Name:             k.String(),
			ShortDescription: sarifMessage{Text: ruleDescriptions[k]},
			DefaultConfig:    sarifRuleDefaultConfig{Level: levelFor(k)},
		})
	}
	return rules, index
}

var ruleDescriptions = map[deps.Kind]string{
	deps.MissingDependency:           "A value used by the hook callback is missing from its dependency list.",
	deps.UnnecessaryDependency:       "The dependency list names a value the callback does not need.",
	deps.UnstableLiteralDependency:   "A dependency is constructed anew on every render.",
	deps.NonArrayDependencyList:      "The dependency list is not an array literal.",
	deps.DuplicateDependency:         "The dependency list names the same value twice.",
	deps.ComplexDependency:           "A dependency list entry is too complex to check statically.",
	deps.StaleAssignment:             "The callback assigns to a variable of the enclosing component.",
	deps.UnknownCallback:             "The hook callback cannot be analyzed statically.",
	deps.MissingDependencyList:       "A memoizing hook is called without a dependency list.",
	deps.MissingCallback:             "The hook is called without a callback.",
	deps.AsyncEffect:                 "An effect callback is async.",
	deps.SetStateWithoutDependencies: "An effect without dependencies sets state on every render.",
}

func levelFor(k deps.Kind) string {
	if k.Informational() {
		return "note"
	}
	return "warning"
}
