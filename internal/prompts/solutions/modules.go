package solutions

// Module is one solution module offered to administrators.
type Module struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Summary     string `json:"summary" yaml:"summary"`
	Kind        string `json:"kind" yaml:"kind"`
	Instruction string `json:"-" yaml:"-"`
}

// DefaultInstruction is used for modules without their own block.
const DefaultInstruction = "Provide a comprehensive, actionable response."

// Modules lists the solution modules in display order.
var Modules = []Module{
	{
		ID:          "leave",
		Title:       "Leave & Accommodation Navigator",
		Summary:     "Navigate FMLA, ADA, state leave, and workers' comp.",
		Kind:        "leave request",
		Instruction: "Analyze the request against FMLA, ADA, applicable state leave laws, and the employee handbook. Provide a step-by-step plan covering eligibility determination, required forms and notices, and communication templates for the employee.",
	},
	{
		ID:          "discipline",
		Title:       "Disciplinary Action Advisor",
		Summary:     "Guidance on warnings, improvement plans, and terminations.",
		Kind:        "disciplinary situation",
		Instruction: "Apply progressive discipline principles and relevant employment law. Identify legal risks, provide documentation templates, and describe the organization's legal exposure at each step.",
	},
	{
		ID:          "wage_hour",
		Title:       "Wage & Hour Compliance",
		Summary:     "Check employee classifications and overtime rules.",
		Kind:        "wage and hour question",
		Instruction: "Analyze under the FLSA, state labor law, and DOL guidance. Determine exempt or non-exempt classification and provide a compliance checklist.",
	},
	{
		ID:          "investigation",
		Title:       "Workplace Investigation Manager",
		Summary:     "Step-by-step protocols for harassment and discrimination claims.",
		Kind:        "workplace complaint",
		Instruction: "Lay out an investigation protocol covering interim measures, interview order, evidence preservation, anti-retaliation safeguards under Title VII, and the structure of the final findings report.",
	},
	{
		ID:          "multi_state",
		Title:       "Multi-State Compliance Checker",
		Summary:     "Analyze policy gaps for remote employees in different states.",
		Kind:        "multi-state employment question",
		Instruction: "Compare the organization's policies against the leave, wage, and notice requirements of each state involved. List every gap and the policy change that closes it.",
	},
	{
		ID:          "hiring",
		Title:       "Hiring & Background Checks",
		Summary:     "Ensure compliance with FCRA and 'Ban-the-Box' laws.",
		Kind:        "hiring question",
		Instruction: "Review the hiring step against the FCRA disclosure and adverse action requirements and any applicable Ban-the-Box laws. Provide compliant language and a timeline.",
	},
	{
		ID:          "benefits",
		Title:       "Benefits Compliance Assistant",
		Summary:     "Guidance on COBRA, ACA, and HIPAA qualifying events.",
		Kind:        "benefits question",
		Instruction: "Identify the qualifying events and obligations under COBRA, the ACA, and HIPAA. Provide notice deadlines and the steps the administrator must take.",
	},
}

// Find returns the module with id.
func Find(id string) (Module, bool) {
	for _, m := range Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}
