package observability

import "github.com/aretw0/qiscreen/pkg/domain"

// CombineHooks returns hooks that call every non-nil callback of each set, in order.
func CombineHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnAnswer = chain(out.OnAnswer, h.OnAnswer)
		out.OnUndo = chain(out.OnUndo, h.OnUndo)
		out.OnRecover = chain(out.OnRecover, h.OnRecover)
		out.OnFallback = chain(out.OnFallback, h.OnFallback)
		out.OnComplete = chain(out.OnComplete, h.OnComplete)
		out.OnShield = chain(out.OnShield, h.OnShield)
	}
	return out
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
