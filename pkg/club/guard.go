package club

// Маршруты, в которые ведут решения правил доступа.
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteAdmin     = "/admin"
	RoutePayment   = "/payment"
)

// DecisionKind — вид решения правила доступа.
type DecisionKind int

const (
	// Wait — состояние сессии ещё загружается, решение принимать рано.
	Wait DecisionKind = iota
	// Allow — доступ разрешён.
	Allow
	// Redirect — доступ запрещён, перейти на Decision.Target.
	Redirect
)

// Decision — результат проверки доступа к маршруту.
type Decision struct {
	Kind   DecisionKind
	Target string // Маршрут перенаправления, только при Kind == Redirect.
}

func wait() Decision              { return Decision{Kind: Wait} }
func allow() Decision             { return Decision{Kind: Allow} }
func redirect(to string) Decision { return Decision{Kind: Redirect, Target: to} }

// GuardProtected решает доступ к защищённому маршруту path.
// requiredRole пустой — достаточно любой аутентификации.
//
// Порядок проверок фиксирован: загрузка, аутентификация, роль, оплата.
// Участник с ролью user и статусом PENDING не допускается никуда, кроме
// страницы оплаты — членство сначала нужно оплатить. Администраторов
// проверка оплаты не касается.
func GuardProtected(state State, path, requiredRole string) Decision {
	if state.IsLoading {
		return wait()
	}
	if !state.IsAuthenticated || state.User == nil {
		return redirect(RouteLogin)
	}
	if requiredRole != "" && !state.User.HasRole(requiredRole) {
		return redirect(RouteHome)
	}
	if state.User.HasRole(RoleUser) && state.User.Status == StatusPending && path != RoutePayment {
		return redirect(RoutePayment)
	}
	return allow()
}

// GuardPublic решает доступ к публичному маршруту (вход, регистрация).
// Аутентифицированному пользователю там делать нечего: администратор
// уходит в админку, остальные — в личный кабинет.
func GuardPublic(state State) Decision {
	if state.IsLoading {
		return wait()
	}
	if !state.IsAuthenticated || state.User == nil {
		return allow()
	}
	if state.User.HasRole(RoleAdmin) {
		return redirect(RouteAdmin)
	}
	return redirect(RouteDashboard)
}

// GuardUnknown решает судьбу неизвестного маршрута: всегда домой.
func GuardUnknown(state State) Decision {
	if state.IsLoading {
		return wait()
	}
	return redirect(RouteHome)
}
