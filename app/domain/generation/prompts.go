package generation

import "fmt"

const generateSystemPrompt = "You are an expert in creating PlantUML diagrams. " +
	"Your task is to generate valid PlantUML code based on user requests. " +
	"Always return only the PlantUML code without any explanations, markdown formatting, or additional text. " +
	"The code must start with @startuml and end with @enduml. " +
	"Make sure the PlantUML code is complete, valid, and ready to use."

const optimizeSystemPrompt = "You are an expert in optimizing PlantUML diagrams. " +
	"Your task is to improve the given PlantUML code: simplify the layout, remove redundancy, " +
	"apply consistent naming, and keep the diagram semantics unchanged. " +
	"Always return only the optimized PlantUML code without any explanations, markdown formatting, or additional text. " +
	"The code must start with @startuml and end with @enduml."

// explainSystemPrompt returns the system prompt for the explain flow,
// templated by a two-letter language code. "en" is the default when the
// code is blank or unknown.
func explainSystemPrompt(language string) string {
	switch language {
	case "", "en":
		return "You are an expert in reading PlantUML diagrams. " +
			"Explain in clear English what the given PlantUML diagram describes: its participants, " +
			"relationships, and overall flow. Answer in plain prose, not code."
	case "vi":
		return "Bạn là chuyên gia đọc hiểu sơ đồ PlantUML. " +
			"Hãy giải thích bằng tiếng Việt rõ ràng sơ đồ PlantUML sau mô tả điều gì: các thành phần, " +
			"mối quan hệ và luồng tổng thể. Trả lời bằng văn xuôi, không dùng mã."
	default:
		return fmt.Sprintf("You are an expert in reading PlantUML diagrams. "+
			"Explain what the given PlantUML diagram describes: its participants, relationships, "+
			"and overall flow. Respond in the language with ISO 639-1 code %q. "+
			"Answer in plain prose, not code.", language)
	}
}
