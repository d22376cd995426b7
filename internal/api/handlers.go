package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/stt"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
	maxJSONBody      = 1 << 20
)

// requiredFields must be present in a save request, in reporting order.
var requiredFields = []string{"amount", "category", "description", "date", "type"}

type healthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	SheetsMode    string `json:"sheets_mode"`
	SpeechEnabled bool   `json:"speech_enabled"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	mode := "live"
	if s.ledger.Simulated() {
		mode = "simulated"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Service:       serviceName,
		Version:       s.version,
		SheetsMode:    mode,
		SpeechEnabled: s.transcriber != nil,
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "语音识别服务不可用")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "无效的上传请求")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "未找到音频文件")
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "audio/") {
		writeError(w, http.StatusBadRequest, "请上传音频文件")
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "读取音频文件失败")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "音频文件为空")
		return
	}

	text, err := s.transcriber.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		s.logger.Warn("transcription failed",
			"request_id", middleware.GetReqID(r.Context()),
			"filename", header.Filename,
			"error", err)
		status, message := transcribeFailure(err)
		writeError(w, status, message)
		return
	}

	rec := s.processor.Process(r.Context(), text)
	writeJSON(w, http.StatusOK, envelope{
		Success:       true,
		Data:          rec,
		Message:       "语音处理成功",
		Transcription: text,
	})
}

func transcribeFailure(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrEmptyAudio):
		return http.StatusBadRequest, "音频文件为空"
	case errors.Is(err, stt.ErrNoSpeech):
		return http.StatusUnprocessableEntity, "未识别到语音内容"
	case errors.Is(err, common.ErrRateLimit):
		return http.StatusTooManyRequests, "语音识别请求过于频繁"
	case errors.Is(err, common.ErrSTTUnavailable):
		return http.StatusServiceUnavailable, "语音识别服务不可用"
	default:
		return http.StatusBadGateway, "语音识别失败"
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不是有效的JSON")
		return
	}

	rec := s.processor.Process(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: rec, Message: "解析成功"})
}

type saveRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	IsDaily       string          `json:"is_daily"`
	IsNecessary   string          `json:"is_necessary"`
	RawText       string          `json:"raw_text"`
	Confidence    float64         `json:"confidence"`
}

// draft validates req and converts it to a draft. The error is user-facing.
func (req saveRequest) draft() (model.ExpenseDraft, error) {
	category, ok := model.ParseCategory(req.Category)
	if !ok {
		return model.ExpenseDraft{}, errors.New("无效的分类: " + req.Category)
	}
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(req.Date)); err != nil {
		return model.ExpenseDraft{}, errors.New("日期格式无效，应为YYYY-MM-DD")
	}
	entryType := model.EntryType(strings.TrimSpace(req.Type))
	if entryType != model.TypeExpense && entryType != model.TypeIncome {
		return model.ExpenseDraft{}, errors.New("无效的类型: " + req.Type)
	}
	if req.Amount.IsNegative() {
		return model.ExpenseDraft{}, errors.New("金额不能为负数")
	}

	payment := model.PaymentMethod("")
	if req.PaymentMethod != "" {
		m, ok := model.ParsePaymentMethod(req.PaymentMethod)
		if !ok {
			return model.ExpenseDraft{}, errors.New("无效的支付方式: " + req.PaymentMethod)
		}
		payment = m
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 1
	}

	return model.ExpenseDraft{
		Amount:        req.Amount,
		Category:      category,
		Subcategory:   req.Subcategory,
		Description:   req.Description,
		Date:          strings.TrimSpace(req.Date),
		Type:          entryType,
		PaymentMethod: payment,
		RawText:       req.RawText,
		IsDaily:       tristate(req.IsDaily),
		IsNecessary:   tristate(req.IsNecessary),
		Confidence:    confidence,
	}, nil
}

func tristate(s string) model.Tristate {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return model.ParseTristate(s)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "请求体过大")
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不是有效的JSON")
		return
	}
	for _, field := range requiredFields {
		v, ok := raw[field]
		if !ok || string(v) == "null" {
			writeError(w, http.StatusBadRequest, "缺少必要字段: "+field)
			return
		}
	}

	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "字段格式无效")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "缺少必要字段: description")
		return
	}
	draft, err := req.draft()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec := draft.Finalize(s.now(), model.Annotations{})

	ctx := r.Context()
	result, err := s.ledger.AppendExpense(ctx, rec)
	if err != nil {
		s.logger.Error("ledger append failed",
			"request_id", middleware.GetReqID(ctx),
			"error", err)
		if errors.Is(err, common.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "记录不完整")
			return
		}
		if common.IsRetryable(err) {
			writeError(w, http.StatusServiceUnavailable, "表格服务繁忙，请稍后重试")
			return
		}
		writeError(w, http.StatusBadGateway, "保存到表格失败")
		return
	}

	s.journalRecord(r, rec, result)

	message := "记账成功"
	if result.Simulated {
		message += "（模拟模式）"
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result.Row, Message: message})
}

// journalRecord mirrors a saved record into the local journal. Failures are
// logged and never fail the request.
func (s *Server) journalRecord(r *http.Request, rec model.ExpenseRecord, result sheets.SaveResult) {
	if s.journal == nil {
		return
	}
	ctx := r.Context()
	logger := s.logger.With("request_id", middleware.GetReqID(ctx))

	id, err := s.journal.SaveExpense(ctx, rec)
	if err != nil {
		logger.Warn("journal write failed", "error", err)
		return
	}
	if result.Simulated {
		return
	}
	if err := s.journal.MarkSynced(ctx, id, result.Row.ID); err != nil {
		logger.Warn("journal sync mark failed", "id", id, "error", err)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit 参数无效")
			return
		}
		limit = n
	}

	rows, err := s.ledger.ListExpenses(r.Context(), limit)
	if err != nil {
		s.logger.Error("ledger list failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusBadGateway, "读取表格失败")
		return
	}
	if rows == nil {
		rows = []sheets.ExpenseRow{}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: rows})
}

type connectionStatus struct {
	Connected bool `json:"connected"`
	Simulated bool `json:"simulated"`
}

func (s *Server) handleSheetsTest(w http.ResponseWriter, r *http.Request) {
	status := connectionStatus{Simulated: s.ledger.Simulated()}
	if err := s.ledger.TestConnection(r.Context()); err != nil {
		s.logger.Warn("ledger connection test failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success: false,
			Data:    status,
			Message: "表格连接失败",
			Error:   &apiError{Message: err.Error(), Type: errorType(http.StatusServiceUnavailable)},
		})
		return
	}
	status.Connected = true
	message := "表格连接正常"
	if status.Simulated {
		message += "（模拟模式）"
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: status, Message: message})
}
