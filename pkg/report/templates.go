package report

// htmlCoverageReport is the templates contents for html style analysis report.
var htmlCoverageReport = "" +
	`<!DOCTYPE html>
<html lang="en">

<head>
    <meta charset="utf-8">
    <title>{{ .ProjectName }} Analysis</title>
    <style type="text/css">
        .src-snippet {
            margin-top: 2em;
        }

        .src-name {
            font-weight: bold;
        }

        .snippets {
            border-top: 1px solid #bdbdbd;
            border-bottom: 1px solid #bdbdbd;
        }

        .severity-error {
            color: #c62828;
        }

        a {
            text-decoration: none;
        }
        a:hover {
            text-decoration: underline;
        }
        a:active {
            color: black;
        }
    </style>
</head>

<body>
    <h1>{{ .ProjectName }} Analysis</h1>
    {{ if .Revision }}
        <p>Revision: {{ .Revision }}</p>
    {{ end }}

    {{ if .CoverageProfile }}
        <ul>
            <li>
                <b>Lines to cover</b>: {{ NormalizeLines .TotalLines }}
            </li>
            <li>
                <b>Covered</b>: {{ NormalizeLines .TotalCoveredLines }}
            </li>
            <li>
                <b>Line coverage</b>: {{ .TotalCoveragePercent }}%
            </li>
            {{ if .TotalConditions }}
            <li>
                <b>Condition coverage</b>: {{ .TotalConditionCoveragePercent }}% ({{ .TotalCoveredConditions }}/{{ .TotalConditions }})
            </li>
            {{ end }}
            {{ if .Tests }}
            <li>
                <b>Tests</b>: {{ .Tests }} executed, {{ .SkippedTests }} skipped, {{ .TestFailures }} failures, {{ .TestErrors }} errors
            </li>
            {{ end }}
            <li>
                <b>Issues</b>: {{ .TotalIssues }}
            </li>
        </ul>

        <table border="1">
            <thead>
                <tr>
                    <th>Source File</th>
                    <th>Type</th>
                    <th>Line Coverage (%)</th>
                    <th>Covered Lines</th>
                    <th>Lines to Cover</th>
                    <th>Conditions</th>
                    <th>Tests</th>
                    <th>Issues</th>
                </tr>
            </thead>
            <tbody>
                {{ range .CoverageProfile }}
                <tr>
                    <td><a href="#{{.FileName}}">{{ .FileName }}</a></td>
                    <td>{{ .Type }}</td>
                    <td>{{ if .HasCoverage }}{{ PercentCovered .TotalLines .CoveredLines }}{{ end }}</td>
                    <td>{{ .CoveredLines }}</td>
                    <td>{{ .TotalLines }}</td>
                    <td>{{ if .TotalConditions }}{{ .CoveredConditions }}/{{ .TotalConditions }}{{ end }}</td>
                    <td>{{ if .Tests }}{{ .Tests }}{{ end }}</td>
                    <td>{{ len .Issues }}</td>
                </tr>
                {{ end }}
            </tbody>
        </table>

        {{ range .CoverageProfile }}
            {{ if or .CodeSnippet .Issues }}
            <div class="src-snippet">
                <div class="src-name" id="{{.FileName}}">{{ .FileName }}</div>
                {{ if .TotalViolationLines }}
                <p>Uncovered lines: {{ IntsJoin .TotalViolationLines }}</p>
                {{ end }}
                {{ if .PartialConditionLines }}
                <p>Partially covered conditions: {{ IntsJoin .PartialConditionLines }}</p>
                {{ end }}
                <div class="snippets">
                    {{range .CodeSnippet}}
                    {{ . }}
                    {{ end }}
                </div>
                {{ if .Issues }}
                <ul>
                {{ range .Issues }}
                    <li class="severity-{{ .Severity }}">line {{ .Line }}: {{ .Message }} ({{ .RuleKey }})</li>
                {{ end }}
                </ul>
                {{ end }}
            </div>
            {{ end }}
        {{ end }}

    {{ else }}
        <p>No measures were imported for this project.</p>
    {{ end }}

</body>

</html>
`
