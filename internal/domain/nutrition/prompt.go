package nutrition

// AnalysisPrompt instructs the model to produce the markdown layout that
// ParseReport understands.
const AnalysisPrompt = `
You are an expert AI nutritionist.

Please analyze the uploaded food image and generate a structured nutritional report in markdown format:

### 🍽️ Food Items & Estimated Calories:
- Rice – 180 calories
- Fish Fry – 200 calories
- Mixed Vegetables – 100 calories

### 🔥 Total Estimated Calories:
**480 calories**

### 📊 Nutritional Breakdown (percent of total calories):
- Carbohydrates: 55%
- Protein: 25%
- Fats: 15%
- Fiber: 3%
- Sugar: 2%

### 🩺 Health Assessment:
This is a well-balanced traditional Indian meal with lean protein and moderate carbohydrates.

Use this format strictly. If unsure, mention 'Unknown item – not estimated'.
`
