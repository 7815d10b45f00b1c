package brief

import "github.com/ctiworks/intel-strategy/pkg/themes"

// Static lookup tables mapping themes to executive prose. Immutable data,
// loaded once at process start.

var themeInterpretation = map[string]string{
	"exploit":      "Accelerated exploitation of exposed services suggests attackers are prioritizing speed-to-access over bespoke tooling.",
	"zero-day":     "Zero-day themes imply elevated uncertainty and higher potential impact due to limited mitigations early in the window.",
	"credential":   "Credential-focused activity is a leading indicator for account takeover and lateral movement risk.",
	"phishing":     "Phishing volume indicates identity systems and user workflows remain high-leverage attack paths.",
	"ransomware":   "Ransomware signals imply disruptive intent and high business impact (availability/operations).",
	"apt":          "APT themes suggest long-horizon activity and potential strategic targeting rather than opportunistic noise.",
	"supply chain": "Supply-chain themes imply indirect compromise paths with amplified blast radius across vendors and dependencies.",
	"c2":           "C2 signals suggest sustained footholds and the need to validate egress controls and detection coverage.",
	"ddos":         "DDoS activity tends to correlate with disruption intent and reputational impact, especially for online services.",
	"malware":      "Malware volume usually indicates broad commodity activity; the risk depends on delivery vectors and controls maturity.",
	"botnet":       "Botnet activity indicates scalable infrastructure abuse and opportunistic targeting of exposed services.",
}

// themeRule fires its text when any of its trigger themes is present.
type themeRule struct {
	triggers []string
	text     string
}

var actionRules = []themeRule{
	{
		triggers: []string{"phishing", "credential"},
		text:     "Approve a focused identity hardening push: tighten DMARC, review MFA coverage for privileged roles, and expand conditional access policies.",
	},
	{
		triggers: []string{"exploit", "zero-day"},
		text:     "Authorize an emergency patch/mitigation playbook for internet-facing assets (patch SLAs, WAF/IPS virtual patching, exposure inventory).",
	},
	{
		triggers: []string{"ransomware"},
		text:     "Sponsor a ransomware readiness review: validate restore SLAs, test backups, and confirm endpoint protection coverage on critical systems.",
	},
	{
		triggers: []string{"supply chain"},
		text:     "Direct vendor risk review for key software/providers and prioritize SBOM/third-party patch visibility where possible.",
	},
	{
		triggers: []string{"ddos"},
		text:     "Validate DDoS resilience and run an availability tabletop exercise for critical online services.",
	},
}

var outlookRules = []themeRule{
	{
		triggers: []string{"exploit", "zero-day"},
		text:     "Continued exploitation of public-facing services is likely; maintain rapid mitigation pathways and validate exposure inventories.",
	},
	{
		triggers: []string{"credential", "phishing"},
		text:     "Credential abuse will remain a leading access vector; focus on identity hardening and user workflow protections.",
	},
	{
		triggers: []string{"ransomware"},
		text:     "Opportunistic ransomware attempts remain plausible; validate backups and enforce segmentation/EDR coverage for critical assets.",
	},
	{
		triggers: []string{"supply chain"},
		text:     "Third-party software risk may increase; prioritize vendor patch visibility and review high-trust integrations.",
	},
}

const (
	noDriverBullet  = "No single theme dominated the period; maintain baseline monitoring and core hygiene controls."
	noActionBullet  = "Maintain baseline security hygiene and monitoring; no urgent strategic action triggered by this period's themes."
	noOutlookBullet = "No dominant forward signal emerged; expect a mixed landscape with continued commodity activity."
)

// strategicDrivers picks interpretation sentences for the top themes in
// frequency order, deduplicated, up to maxBullets.
func strategicDrivers(top []themes.ThemeCount, maxBullets int) []string {
	bullets := []string{}
	seen := map[string]struct{}{}
	for _, t := range top {
		msg, ok := themeInterpretation[t.Theme]
		if !ok {
			continue
		}
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		bullets = append(bullets, msg)
		if len(bullets) >= maxBullets {
			break
		}
	}
	if len(bullets) == 0 {
		bullets = append(bullets, noDriverBullet)
	}
	return bullets
}

// leadershipActions evaluates the action rule table against present themes,
// at most 5 distinct actions.
func leadershipActions(top []themes.ThemeCount) []string {
	return fireRules(actionRules, top, 5, noActionBullet)
}

// forwardOutlook evaluates the outlook rule table against present themes.
func forwardOutlook(top []themes.ThemeCount) []string {
	return fireRules(outlookRules, top, 4, noOutlookBullet)
}

func fireRules(rules []themeRule, top []themes.ThemeCount, max int, fallback string) []string {
	present := map[string]struct{}{}
	for _, t := range top {
		present[t.Theme] = struct{}{}
	}

	out := []string{}
	for _, r := range rules {
		for _, trig := range r.triggers {
			if _, ok := present[trig]; ok {
				out = append(out, r.text)
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, fallback)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
