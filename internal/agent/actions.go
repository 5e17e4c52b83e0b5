package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nbenliogludev/postwatch/internal/llm"
)

// clickScriptTmpl clicks the tagged element, walking up to the nearest
// clickable ancestor the way a user's click would resolve.
const clickScriptTmpl = `(() => {
	const el = document.querySelector("[data-ai-id='%d']");
	if (!el) return 'error: element not found';
	try {
		if (el.scrollIntoView) el.scrollIntoView({ block: 'center', inline: 'center' });
		const isClickable = (n) => {
			if (!n) return false;
			const tag = (n.tagName || '').toLowerCase();
			const role = (n.getAttribute && (n.getAttribute('role') || '').toLowerCase()) || '';
			if (tag === 'button' || tag === 'a' || tag === 'label') return true;
			if (tag === 'input') {
				const type = (n.type || '').toLowerCase();
				if (['button', 'submit', 'radio', 'checkbox'].includes(type)) return true;
			}
			return ['button', 'link', 'radio', 'checkbox'].includes(role);
		};
		let cur = el;
		for (let i = 0; i < 5 && cur; i++) {
			if (isClickable(cur)) { cur.click(); return 'ok'; }
			cur = cur.parentElement;
		}
		el.click();
		return 'ok';
	} catch (e) {
		return 'error: ' + e;
	}
})()`

// typeScriptTmpl fills the tagged input and fires the framework events;
// with submit it prefers the surrounding form over a synthetic Enter.
const typeScriptTmpl = `(() => {
	const el = document.querySelector("[data-ai-id='%d']");
	if (!el) return 'error: element not found';
	try {
		if (el.scrollIntoView) el.scrollIntoView({ block: 'center', inline: 'center' });
		el.focus();
		el.value = '';
		el.value = %s;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		if (%t) {
			if (el.form && el.form.requestSubmit) {
				el.form.requestSubmit();
			} else {
				el.dispatchEvent(new KeyboardEvent('keydown', { key: 'Enter', bubbles: true }));
			}
		}
		return 'ok';
	} catch (e) {
		return 'error: ' + e;
	}
})()`

const scrollScript = `(() => { window.scrollBy({ top: 500, behavior: 'smooth' }); return 'ok'; })()`

func (a *Agent) executeAction(ctx context.Context, action llm.Action, currentURL string) error {
	switch action.Type {
	case llm.ActionScroll:
		_, err := a.session.Evaluate(ctx, scrollScript)
		return err

	case llm.ActionWait:
		return sleepCtx(ctx, a.stepPause)

	case llm.ActionNavigate:
		return a.session.Navigate(ctx, normalizeURL(currentURL, action.URL))

	case llm.ActionClick:
		if action.TargetID == 0 {
			return fmt.Errorf("click without target_id")
		}
		res, err := a.session.Evaluate(ctx, fmt.Sprintf(clickScriptTmpl, action.TargetID))
		if err != nil {
			return err
		}
		if strings.HasPrefix(res, "error:") {
			return fmt.Errorf("click failed: %s", res)
		}
		return nil

	case llm.ActionTypeInput:
		if action.TargetID == 0 {
			return fmt.Errorf("type without target_id")
		}
		// JSON-encode the text so quotes and newlines survive as a JS literal.
		quoted, err := json.Marshal(action.Text)
		if err != nil {
			return err
		}
		script := fmt.Sprintf(typeScriptTmpl, action.TargetID, string(quoted), action.Submit)
		res, err := a.session.Evaluate(ctx, script)
		if err != nil {
			return err
		}
		if strings.HasPrefix(res, "error:") {
			return fmt.Errorf("type failed: %s", res)
		}
		return nil

	case llm.ActionFinish:
		return nil

	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

func normalizeURL(currentURL, target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return currentURL
	}

	u, err := url.Parse(target)
	if err == nil && u.IsAbs() {
		return target
	}

	base, err := url.Parse(currentURL)
	if err != nil {
		return target
	}
	return base.ResolveReference(u).String()
}
