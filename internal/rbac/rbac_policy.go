package rbac

import "go-erp/internal/employee"

const (
	ResourcePayroll    = "payroll"
	ResourcePayslip    = "payslip"
	ResourceSalary     = "salary"
	ResourceTaxBracket = "tax_bracket"
	ResourceReport     = "report"

	ActionRead    = "read"
	ActionReadOwn = "read_own"
	ActionWrite   = "write"
	ActionDelete  = "delete"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type permission struct {
	Resource string
	Action   string
}

// rolePermissions mirrors the portal dashboards.
var rolePermissions = map[string][]permission{
	employee.RoleFinance: {
		{ResourcePayroll, ActionRead},
		{ResourcePayroll, ActionWrite},
		{ResourcePayroll, ActionDelete},
		{ResourcePayslip, ActionRead},
		{ResourceSalary, ActionRead},
		{ResourceSalary, ActionWrite},
		{ResourceTaxBracket, ActionRead},
		{ResourceTaxBracket, ActionWrite},
		{ResourceReport, ActionRead},
	},
	employee.RoleHR: {
		{ResourcePayroll, ActionRead},
		{ResourcePayslip, ActionRead},
		{ResourceSalary, ActionRead},
		{ResourceSalary, ActionWrite},
		{ResourceTaxBracket, ActionRead},
	},
	employee.RoleEmployee: {
		{ResourcePayslip, ActionReadOwn},
		{ResourceTaxBracket, ActionRead},
	},
}

// roleParents: Admin sees everything Finance and HR see; staff roles inherit Employee.
var roleParents = map[string][]string{
	employee.RoleAdmin:   {employee.RoleFinance, employee.RoleHR},
	employee.RoleHR:      {employee.RoleEmployee},
	employee.RoleFinance: {employee.RoleEmployee},
	employee.RoleIT:      {employee.RoleEmployee},
	employee.RolePM:      {employee.RoleEmployee},
	employee.RoleCRM:     {employee.RoleEmployee},
}
