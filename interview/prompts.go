package interview

import "fmt"

const contextSystemPrompt = `You are a Document Analyst. Analyze the provided
context and topic to identify key concepts, definitions, and areas suitable
for interview questions. Summarize the most important points.`

const questionSystemPrompt = `You are a Mock Interviewer conducting professional
interview practice. Generate clear, focused questions that test understanding,
not just recall. Be encouraging but maintain professionalism.`

const assessmentSystemPrompt = `You are a Performance Critic assessing interview answers.
Evaluate for: accuracy, completeness, clarity, and practical understanding.

Provide your assessment in this exact format:
SCORE: [0-100]
FEEDBACK: [Detailed constructive feedback]
STRENGTHS: [Key strengths, comma-separated]
WEAKNESSES: [Areas for improvement, comma-separated]
NEEDS_FOLLOWUP: [YES or NO - only YES if answer was incomplete or unclear]`

func contextPrompt(topic, context string) string {
	return fmt.Sprintf(`Topic: %s

Available Context:
%s

Identify 3-5 key areas that should be assessed in an interview about this topic.`, topic, context)
}

func followupPrompt(s State) string {
	return fmt.Sprintf(`Generate a follow-up question to clarify the candidate's
previous answer. The answer was: "%s"

Topic: %s
Context: %s

Generate ONE specific follow-up question that probes deeper into their understanding.`, s.CurrentAnswer, s.Topic, s.Context)
}

func mainQuestionPrompt(s State) string {
	return fmt.Sprintf(`Generate an interview question for the following topic.

Topic: %s
Context: %s
Questions asked so far: %d

Generate ONE clear, focused question. Mix difficulty levels across questions.
Return ONLY the question, no preamble.`, s.Topic, s.Context, s.QuestionCount)
}

func assessmentPrompt(s State) string {
	return fmt.Sprintf(`Question: %s

Candidate's Answer: %s

Topic Context: %s

Assess this answer:`, s.CurrentQuestion, s.CurrentAnswer, s.Topic)
}

// Message prefixes in the audit log.
const (
	tagContext    = "[Context Analysis] "
	tagQuestion   = "[Question] "
	tagAnswer     = "[Answer] "
	tagAssessment = "[Assessment] "
	tagDecision   = "[Decision] "
)
