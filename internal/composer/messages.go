package composer

// Severity of a user-facing notice.
type Severity string

const (
	SeverityNone    Severity = ""
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is the transient banner shown after an action.
type Notice struct {
	Severity Severity `json:"severity,omitempty"`
	Message  string   `json:"message,omitempty"`
}

func (n Notice) Empty() bool { return n.Message == "" }

func success(msg string) Notice { return Notice{Severity: SeveritySuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Severity: SeverityError, Message: msg} }

const (
	msgFillRequired      = "請填寫所有必填欄位"
	msgNotLoggedIn       = "尚未登入"
	msgLoginToViewDrafts = "請先登入以查看草稿"
	msgDraftSaved        = "草稿已儲存"
	msgSaveDraftFailed   = "儲存草稿失敗"
	msgDraftPublished    = "草稿已成功發布"
	msgPostPublished     = "文章發布成功"
	msgPublishFailed     = "發布失敗，請稍後再試"
	msgDraftLoaded       = "草稿已載入"
	msgLoadDraftFailed   = "無法載入草稿"
	msgDraftNotFound     = "找不到指定草稿"
	msgDraftDeleted      = "草稿已刪除"
	msgDeleteDraftFailed = "無法刪除草稿"
	msgBusy              = "處理中，請稍候"
	msgForbidden         = "無權限存取此草稿"
)
