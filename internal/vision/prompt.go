package vision

import (
	"fmt"
	"strings"
)

// PromptInput carries the field metadata substituted into the analysis
// prompt. All fields are optional; LastWateringAt is the raw value the
// farmer entered, not a parsed time, so composition stays byte-stable.
type PromptInput struct {
	CropType       string
	FieldName      string
	FarmName       string
	Notes          string
	LastWateringAt string
}

// ComposePrompt builds the instruction block sent to the model. It is a
// pure function: identical inputs always produce identical output, with
// fixed fallback text for every missing field.
func ComposePrompt(in PromptInput) string {
	cropType := in.CropType
	if cropType == "" {
		cropType = "غير محدد"
	}

	notes := in.Notes
	if notes == "" {
		notes = "لا توجد ملاحظات إضافية."
	}

	lastWateringText := "المزارع لم يحدد موعد آخر ري، فاعتمد تقديرًا عامًا لاحتياجات الري بناءً على حالة النبات في الصور ونوع المحصول."
	if in.LastWateringAt != "" {
		lastWateringText = fmt.Sprintf("تاريخ ووقت آخر ري ذكره المزارع: %s.", in.LastWateringAt)
	}

	return strings.TrimSpace(fmt.Sprintf(`
أنت خبير زراعي يستخدم رؤية حاسوبية لتحليل صور النباتات.

لدينا حقل باسم "%s" في مزرعة "%s".

نوع المحصول (من إدخال المزارع): %s.
ملاحظات المزارع الإضافية: %s
%s

اعتمد على الصور والبيانات السابقة وقدّم تقريرًا موجزًا باللغة العربية يشمل:

- نوع النبات المحتمل (إن أمكن).
- العمر التقريبي للنبات (شتلة، صغير، متوسط، جاهز حصاد...).
- حالة النبات الصحية (سليم، إجهاد مائي، آفات، أمراض فطرية، نقص عناصر...).
- الأمراض أو الآفات أو نقص العناصر المحتملة (مع ذكر الاحتمال إن كان غير مؤكد).
- توصيات للري بشكل عام (عدد مرات تقريبية في الأسبوع أو وصف مثل: ري خفيف/متوسط/غزير مع توضيح الوقت الأنسب صباحًا أو مساءً).
- توصيات للعلاج (اسم المادة الفعّالة + مثال اسم تجاري إن أمكن).
- أي ملاحظات إضافية مفيدة للمزارع.

اكتب الرد في شكل عناوين وفقرات مرتبة، بدون استخدام اللغة الإنجليزية داخل النص قدر الإمكان.
`, in.FieldName, in.FarmName, cropType, notes, lastWateringText))
}
