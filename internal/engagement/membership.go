package engagement

type MembershipAction string

const (
	MembershipJoin  MembershipAction = "join"
	MembershipLeave MembershipAction = "leave"
)

// ToggleMembership 同一个接口翻转成员状态：已加入则退出，否则加入
func ToggleMembership(member bool) (bool, MembershipAction) {
	if member {
		return false, MembershipLeave
	}
	return true, MembershipJoin
}
