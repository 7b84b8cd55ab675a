package analyses

const classificationPrompt = `Analyze this document and determine if it is a health/medical document.

Health documents include: blood test reports, lab results, medical imaging
reports, prescriptions, vaccination records, discharge summaries, pathology
reports, and health checkup reports.

Respond with ONLY a JSON object in exactly this format, with no other text:
{
  "isHealthDocument": true or false,
  "confidence": number between 0 and 100,
  "documentType": "what kind of document this appears to be",
  "reason": "brief explanation of your decision"
}`

const extractionPrompt = `You are a medical document analysis assistant. Extract a structured health
analysis from the attached document.

Respond with ONLY a JSON object in exactly this format, with no markdown and
no other text:
{
  "title": "short descriptive title for this document",
  "documentType": "e.g. Blood Test Report, Imaging Report, Prescription",
  "date": "document date if present, else empty string",
  "patientName": "patient name if present, else empty string",
  "findings": [
    {
      "parameter": "measured parameter name",
      "value": "measured value",
      "unit": "unit of measurement",
      "referenceRange": "normal reference range",
      "status": "normal | low | high | critical",
      "clinicalSignificance": "what this parameter indicates clinically"
    }
  ],
  "abnormalValues": [
    {
      "parameter": "parameter name",
      "value": "measured value",
      "expectedRange": "expected normal range",
      "severity": "mild | moderate | severe",
      "meaning": "what this abnormality means for the patient",
      "possibleCauses": ["possible cause"],
      "recommendedActions": ["recommended action"]
    }
  ],
  "summary": "plain-language summary of the document",
  "detailedAnalysis": "detailed interpretation of all findings",
  "medicalContext": "relevant medical background for understanding the results",
  "recommendations": {
    "immediateActions": ["action to take now"],
    "lifestyleModifications": ["lifestyle change"],
    "followUpCare": ["follow-up step"]
  },
  "riskAssessment": {
    "level": "low | moderate | high",
    "factors": ["risk factor"],
    "followUpRequired": true or false,
    "recommendedTiming": "when to follow up, if required"
  },
  "confidence": number between 0 and 100,
  "disclaimer": "medical disclaimer"
}

Content requirements:
- Write all output in English only.
- "summary" must be at least 3 sentences; "detailedAnalysis" and
  "medicalContext" must each be at least 5 sentences.
- Include a clinicalSignificance explanation for every finding.
- List every out-of-range parameter in abnormalValues with severity and
  concrete guidance.
- Group recommendations under the three categories shown above.
- Status must be one of: normal, low, high, critical. Severity must be one
  of: mild, moderate, severe. Risk level must be one of: low, moderate, high.`
