package task

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Params is everything the instruction prompt is built from.
type Params struct {
	TargetURL string
	Username  string
	Password  string
	// Advice is free text from the previous run's advisor; injected
	// verbatim under a policy header when non-empty.
	Advice string
}

// LoadAdvice reads the advice file from a previous run. A missing or
// unreadable file means "no advice", never an error.
func LoadAdvice(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Build formats the run instruction for the agent: role, hard rules, the
// login-then-collect goal, a layered login strategy and the success check.
func Build(p Params) string {
	base := fmt.Sprintf(`ROLE: Robust web-automation agent. You MUST act (click, type).

HARD RULES:
- Vision is OFF. Use only DOM text and attributes.
- Click the same link at most once per page; never loop.
- After every click, wait about 2 seconds.
- On browser errors ("browser not connected", "websocket closed",
  "session corrupted"): STOP and return the error as the result.

GOAL:
1) Log in at %s
2) Then find reports/posts from the last 4 weeks; return titles and links
   as a list.
3) If there are none, return "No new data found."

LOGIN STRATEGY (A -> B -> C):
A) Look for visible text "Log in", "Login", "Sign in", "Anmelden" and click it.
B) Otherwise look for links whose href contains "login" or "signin" and click.
C) Otherwise open header icons/menus whose aria-label/title/class mentions
   user/account/profile/login, then click the login entry.

FORM:
- Find the username/email field (type=text/email, or name/id containing
  user/email/login).
- Find the password field (type=password, or name/id containing pass).
- Type the username %q, type the password %q.
- Click submit/login (type=submit or by text), then wait about 5 seconds.

SUCCESS CHECK:
- Look for "Logout", "Sign out", "Abmelden" or a user profile element.
- If not found, return "Login failed" plus what you observed instead.

THEN:
- Do not navigate wildly. Extract content. If a "Today's Posts" link
  exists, click it once, then extract.%s`,
		p.TargetURL, p.Username, p.Password, environmentNote(p.TargetURL))

	if p.Advice == "" {
		return base
	}
	return "SYSTEM POLICY (FOLLOW STRICTLY):\n" + p.Advice + "\n\n" + base
}

// environmentNote constrains the agent to the target host and, when the
// start URL has a path, to its section of the site.
func environmentNote(startURL string) string {
	u, err := url.Parse(startURL)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimRight(u.Path, "/")

	note := fmt.Sprintf("\n\nENVIRONMENT:\n- You are working on %s. Stay on this domain and never open external search engines.", host)
	if path != "" && path != "/" {
		note += fmt.Sprintf("\n- Stay inside the section whose URL starts with %s unless the goal requires otherwise.", path)
	}
	return note
}
