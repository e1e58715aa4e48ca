package flows

// Default prompt templates for the patterns that expect tagged output.
// Callers may substitute their own templates, but any replacement must ask
// the model for the same tags the pattern extracts:
//
//	route:       <reasoning>, <selection>
//	refine:      <thoughts>, <response> (generator); <evaluation>, <feedback> (evaluator)
//	orchestrate: <analysis>, <tasks> containing <task><type>/<description> groups
//	             (decomposition); <response> (worker)
//
// Tags the model omits extract as empty strings; see pkg/extract.

// selectorPrompt is the classification prompt the router builds from the
// route-table keys. Variables: routes, input.
const selectorPrompt = `Analyze the input and select the most appropriate route from these options: {routes}
First explain your reasoning, then provide your selection in this exact format:

<reasoning>
Brief explanation of why this input should be routed to a specific option.
Consider key terms, intent, and urgency level.
</reasoning>

<selection>
The chosen route name
</selection>

Input: {input}`

// DefaultGeneratorPrompt frames the refine loop's generation step.
const DefaultGeneratorPrompt = `Your goal is to complete the task. If there is feedback
from your previous generations, reflect on it to improve your solution.

Output your answer concisely in the following format:

<thoughts>
[Your understanding of the task and feedback and how you plan to improve]
</thoughts>

<response>
[Your solution here]
</response>`

// DefaultEvaluatorPrompt frames the refine loop's evaluation step.
const DefaultEvaluatorPrompt = `Evaluate the following solution for correctness, completeness,
and quality. You are evaluating only, not attempting to solve the task yourself.
Only output "PASS" if all criteria are met and you have no further suggestions
for improvement.

Output your evaluation concisely in the following format:

<evaluation>PASS, NEEDS_IMPROVEMENT, or FAIL</evaluation>
<feedback>
What needs improvement and why.
</feedback>`

// DefaultOrchestratorPrompt asks the model to decompose a task into subtasks.
// Variables: task.
const DefaultOrchestratorPrompt = `Analyze this task and break it down into two or three distinct approaches:

Task: {task}

Return your response in this format:

<analysis>
Explain your understanding of the task and which variations would be valuable.
Focus on how each approach serves different aspects of the task.
</analysis>

<tasks>
    <task>
    <type>formal</type>
    <description>Write a precise, technical version that emphasizes specifications</description>
    </task>
    <task>
    <type>conversational</type>
    <description>Write an engaging, friendly version that connects with readers</description>
    </task>
</tasks>`

// DefaultWorkerPrompt executes one decomposed subtask.
// Variables: original_task, task_type, task_description.
const DefaultWorkerPrompt = `Generate content based on:
Task: {original_task}
Style: {task_type}
Guidelines: {task_description}

Return your response in this format:

<response>
Your content here, maintaining the specified style and fully addressing requirements.
</response>`
