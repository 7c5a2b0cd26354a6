package catalog

import "encoding/json"

// platformSchema is shared by every tool that targets a store platform.
const platformSchema = `{"type": "string", "description": "Target platform", "enum": ["ios", "android"], "default": "ios"}`

func tableEntries() []*Entry {
	return []*Entry{
		{
			Name:        "get_app_details",
			Description: "Look up store metadata for a single app (title, developer, category, rating).",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"appId": {"type": "string", "description": "Store app identifier (e.g., '389801252' for iOS, package name for Android)"},
					"platform": ` + platformSchema + `,
					"country": {"type": "string", "description": "Two-letter country code (default: US)", "default": "US"},
					"language": {"type": "string", "description": "Two-letter language code (default: en)", "default": "en"}
				},
				"required": ["appId"]
			}`),
			PathTemplate: "/ios/applications/app_details.json",
			Defaults:     map[string]any{"platform": "ios", "country": "US", "language": "en"},
			Routing:      &RoutingInfo{TabID: "overview", SectionID: "app-profile", Highlight: false},
		},
		{
			Name:        "get_reviews",
			Description: "Fetch recent user reviews for an app.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"appId": {"type": "string", "description": "Store app identifier"},
					"platform": ` + platformSchema + `,
					"country": {"type": "string", "description": "Two-letter country code (default: US)", "default": "US"}
				},
				"required": ["appId"]
			}`),
			PathTemplate: "/ios/applications/reviews.json",
			Defaults:     map[string]any{"platform": "ios", "country": "US"},
			Routing:      &RoutingInfo{TabID: "reviews", SectionID: "recent-reviews", Highlight: true},
		},
		{
			Name:        "analyze_top_keywords",
			Description: "Rank the best-performing keywords across one or more apps.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"appIds": {"type": "array", "items": {"type": "string"}, "minItems": 1, "description": "App identifiers to analyze (at least one)"},
					"platform": ` + platformSchema + `,
					"country": {"type": "string", "description": "Two-letter country code (default: US)", "default": "US"}
				},
				"required": ["appIds"]
			}`),
			PathTemplate: "/ios/keywords/top.json",
			Defaults:     map[string]any{"platform": "ios", "country": "US"},
			Routing:      &RoutingInfo{TabID: "keywords", SectionID: "top-keywords", Highlight: true},
		},
		{
			Name:        "analyze_competitors",
			Description: "List competitor apps and their standing relative to the given app.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"appId": {"type": "string", "description": "Store app identifier"},
					"platform": ` + platformSchema + `,
					"country": {"type": "string", "description": "Two-letter country code (default: US)", "default": "US"}
				},
				"required": ["appId"]
			}`),
			PathTemplate: "/ios/applications/competitors.json",
			Defaults:     map[string]any{"platform": "ios", "country": "US"},
			Routing:      &RoutingInfo{TabID: "competitors", SectionID: "competitor-overview", Highlight: false},
		},
		{
			Name:        "get_downloads",
			Description: "Fetch estimated download counts for an app over a date range.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"appId": {"type": "string", "description": "Store app identifier"},
					"platform": ` + platformSchema + `,
					"country": {"type": "string", "description": "Two-letter country code (default: US)", "default": "US"},
					"startDate": {"type": "string", "description": "Range start, YYYY-MM-DD"},
					"endDate": {"type": "string", "description": "Range end, YYYY-MM-DD"}
				},
				"required": ["appId"]
			}`),
			PathTemplate: "/ios/applications/downloads.json",
			Defaults:     map[string]any{"platform": "ios", "country": "US"},
			Routing:      &RoutingInfo{TabID: "performance", SectionID: "downloads-trend", Highlight: false},
		},
	}
}
