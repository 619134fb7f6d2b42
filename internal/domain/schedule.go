package domain

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TopicConfig steers one weekday's generated article.
type TopicConfig struct {
	Theme         string `yaml:"theme" json:"theme"`
	Category      string `yaml:"category" json:"category"`
	CategoryColor string `yaml:"categoryColor" json:"categoryColor"`
	SearchIntent  string `yaml:"searchIntent" json:"searchIntent"`
	ContentRole   string `yaml:"contentRole" json:"contentRole"`
	Guidelines    string `yaml:"guidelines" json:"guidelines"`
}

// Schedule maps every weekday to exactly one TopicConfig. It is
// immutable after construction; lookups are total.
type Schedule struct {
	days [7]TopicConfig
}

// NewSchedule builds a schedule from seven configs indexed
// Sunday (0) through Saturday (6).
func NewSchedule(days [7]TopicConfig) Schedule {
	return Schedule{days: days}
}

// For returns the topic for the given weekday.
func (s Schedule) For(day time.Weekday) TopicConfig {
	return s.days[int(day)%7]
}

type scheduleFile struct {
	Days map[string]TopicConfig `yaml:"days"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadSchedule reads a YAML schedule keyed by lowercase weekday name.
// Days absent from the file keep the built-in default topic, so a
// partial override file is valid.
func LoadSchedule(path string) (Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to read schedule file: %w", err)
	}
	var f scheduleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	s := DefaultSchedule()
	for name, topic := range f.Days {
		day, ok := weekdayNames[name]
		if !ok {
			return Schedule{}, fmt.Errorf("unknown weekday %q in schedule file", name)
		}
		s.days[int(day)] = topic
	}
	return s, nil
}

// DefaultSchedule is the built-in weekly topic rotation.
func DefaultSchedule() Schedule {
	return NewSchedule([7]TopicConfig{
		time.Sunday: {
			Theme:         "Evergreen SEO & Authority Boosters",
			Category:      "Evergreen",
			CategoryColor: "gray",
			SearchIntent:  "FAQs, comparisons, lists, glossaries",
			ContentRole:   "Long-tail traffic + internal linking",
			Guidelines: `Create comprehensive reference content that will remain relevant for years.
Focus on: FAQs, comparisons between trading concepts, educational lists,
common mistakes to avoid, or glossary-style content.
Examples of good topics: "Crypto Trading FAQs", "Common Mistakes",
"Best Timeframes for Trading", "Trading Glossary"`,
		},
		time.Monday: {
			Theme:         "Beginner Crypto Education",
			Category:      "Getting Started",
			CategoryColor: "blue",
			SearchIntent:  "What is / How to / Beginner guide",
			ContentRole:   "Primary traffic driver - top of funnel",
			Guidelines: `Write for absolute beginners entering the crypto trading space.
Explain concepts clearly without jargon. Use analogies to familiar concepts.
Examples: "What Is Crypto Trading?", "How to Start Trading Safely",
"Spot vs Futures Explained", "Terms Beginners Must Know"`,
		},
		time.Tuesday: {
			Theme:         "Trading Strategy Deep Dives",
			Category:      "Trading Strategy",
			CategoryColor: "purple",
			SearchIntent:  "strategy / setup / how to trade",
			ContentRole:   "High-intent, long-tail SEO",
			Guidelines: `Provide actionable, detailed trading strategy explanations.
Include entry/exit criteria, risk management for the strategy,
when to use it, and when to avoid it.
Examples: "VWAP Strategy Explained", "RSI Divergence Strategy",
"EMA Ribbon for Trend Trading", "Breakout Strategy Guide"`,
		},
		time.Wednesday: {
			Theme:         "Risk Management & Psychology",
			Category:      "Risk Management",
			CategoryColor: "orange",
			SearchIntent:  "risk / losing money / stop loss / psychology",
			ContentRole:   "Trust + authority building",
			Guidelines: `Focus on the psychological and risk management aspects of trading.
Be honest about the challenges. Provide practical frameworks.
Examples: "How Much Should You Risk Per Trade?", "Stop Loss Placement",
"Why Most Traders Lose Money", "Overtrading and How to Stop"`,
		},
		time.Thursday: {
			Theme:         "Market Structure & Cycles",
			Category:      "Market Structure",
			CategoryColor: "indigo",
			SearchIntent:  "market structure / cycles / support resistance / liquidity",
			ContentRole:   "Intermediate authority content",
			Guidelines: `Explain how markets work at a structural level.
Cover concepts like market cycles, support/resistance, liquidity, order flow.
Examples: "What Are Market Cycles?", "Bull vs Bear Markets",
"Support and Resistance Explained", "Liquidity Zones"`,
		},
		time.Friday: {
			Theme:         "Capital Growth & Long-Term Strategy",
			Category:      "Capital Growth",
			CategoryColor: "green",
			SearchIntent:  "long term / investing / growth / compounding",
			ContentRole:   "Bridge to investing + lending products",
			Guidelines: `Focus on building wealth over time, not just day trading.
Cover position sizing, compounding, when NOT to trade, passive strategies.
Examples: "Trading vs Investing", "Dollar-Cost Averaging",
"When Not to Trade", "Compounding Gains Over Time"`,
		},
		time.Saturday: {
			Theme:         "Lending Education",
			Category:      "Lending",
			CategoryColor: "teal",
			SearchIntent:  "crypto lending explained / passive income / yield",
			ContentRole:   "Educational monetization support - NOT sales-focused",
			Guidelines: `Educate about crypto lending as a concept. Be neutral and risk-aware.
Never be promotional. Focus on how it works, risks involved, who it's for.
Examples: "What Is Crypto Lending?", "Crypto Lending vs Staking",
"Risks of Crypto Lending", "Who Should Consider Lending?"`,
		},
	})
}
