package pdf

import (
	"bytes"
	"fmt"

	"github.com/andreyPromaster/Course/internal/models"

	"github.com/go-pdf/fpdf"
)

// RenderQuiz builds a printable quiz document fully in memory: the quiz name
// as a bold title, then each question in catalog order as a numbered bold
// heading followed by its answers as a numbered list.
func RenderQuiz(quiz *models.Quiz) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AliasNbPages("")
	doc.AddPage()

	doc.SetFont("Times", "B", 16)
	doc.CellFormat(0, 10, quiz.Name, "", 1, "", false, 0, "")
	doc.SetFont("Times", "", 14)

	for i, question := range quiz.Questions {
		doc.CellFormat(0, 10, "", "", 1, "", false, 0, "")
		doc.SetFont("Times", "B", 14)
		doc.CellFormat(0, 10, fmt.Sprintf("%d. %s", i+1, question.Text), "", 1, "", false, 0, "")
		doc.SetFont("Times", "", 14)
		doc.CellFormat(0, 10, "", "", 1, "", false, 0, "")
		for j, answer := range question.Answers {
			doc.CellFormat(0, 10, fmt.Sprintf("%d. %s", j+1, answer.Text), "", 1, "", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
