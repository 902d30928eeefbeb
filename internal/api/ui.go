package api

import (
	"net/http"
)

const converterUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>XDSL to pyAgrum Converter</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: monospace;
            background: #1a1a2e;
            color: #eee;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
        }
        header {
            background: #16213e;
            padding: 12px 20px;
            border-bottom: 1px solid #0f3460;
        }
        header h1 { font-size: 16px; font-weight: normal; }
        main { padding: 20px; flex: 1; }
        .panel {
            background: #16213e;
            border: 1px solid #0f3460;
            border-radius: 4px;
            padding: 16px;
            margin-bottom: 16px;
        }
        button {
            background: #0f3460;
            color: #eee;
            border: none;
            border-radius: 4px;
            padding: 8px 16px;
            font-family: monospace;
            cursor: pointer;
        }
        button:hover { background: #1a4a80; }
        pre {
            background: #0d0d1a;
            border: 1px solid #0f3460;
            border-radius: 4px;
            padding: 12px;
            overflow-x: auto;
            white-space: pre-wrap;
            min-height: 120px;
        }
        #error { color: #e94560; margin: 8px 0; }
        input[type="file"] { margin-bottom: 12px; }
    </style>
</head>
<body>
<header><h1>XDSL &rarr; pyAgrum Converter</h1></header>
<main>
    <div class="panel">
        <input type="file" id="file" accept=".xdsl,.xml">
        <br>
        <button id="convert">Convert</button>
        <button id="download" disabled>Download network.py</button>
        <div id="error"></div>
    </div>
    <div class="panel">
        <pre id="code"># upload an XDSL file to see the generated pyAgrum code</pre>
    </div>
</main>
<script>
    let generated = "";

    document.getElementById("convert").addEventListener("click", async () => {
        const input = document.getElementById("file");
        const errEl = document.getElementById("error");
        const codeEl = document.getElementById("code");
        errEl.textContent = "";

        if (!input.files.length) {
            errEl.textContent = "choose a file first";
            return;
        }

        const file = input.files[0];
        const resp = await fetch("/convert?filename=" + encodeURIComponent(file.name), {
            method: "POST",
            body: await file.arrayBuffer(),
        });
        const result = await resp.json();

        if (!result.ok) {
            errEl.textContent = result.error || "conversion failed";
            document.getElementById("download").disabled = true;
            return;
        }

        generated = result.code;
        codeEl.textContent = generated;
        document.getElementById("download").disabled = false;
    });

    document.getElementById("download").addEventListener("click", () => {
        const blob = new Blob([generated], { type: "text/x-python" });
        const a = document.createElement("a");
        a.href = URL.createObjectURL(blob);
        a.download = "network.py";
        a.click();
        URL.revokeObjectURL(a.href);
    });
</script>
</body>
</html>`

// uiHandler serves the converter upload page.
func uiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(converterUIHTML))
}
