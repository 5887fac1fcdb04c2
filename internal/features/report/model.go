package report

const (
	ApprovalsSheet = "Approvals"
	StagesSheet    = "Stages"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout      = "2006-01-02 15:04:05"
)

var approvalColumns = []string{
	"Approval ID", "Document ID", "Title", "Document Type", "Project", "Workflow", "Status",
	"Current Stage", "Submitted By", "Submitted At", "Completed At", "Completed By", "Rejection Reason",
}

var stageColumns = []string{
	"Approval ID", "Document ID", "Order", "Stage", "Required Role", "Approver", "Status",
	"Decided By", "Decided At", "Comments", "Signed",
}
